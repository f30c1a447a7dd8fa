// Package voxels turns meshes into signed distance grids
// and extracts surfaces back out of them.
package voxels

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
)

// A SignMethod decides which points are inside a mesh.
type SignMethod string

const (
	// SignRays counts surface crossings along several
	// rays, which tolerates duplicated triangles.
	SignRays SignMethod = "rays"

	// SignSDF uses the sign of model3d's mesh SDF.
	SignSDF SignMethod = "sdf"

	// SignFlood marks grid points that cannot be reached
	// from outside the grid. Only valid for Voxelize.
	SignFlood SignMethod = "flood"
)

// ParseSignMethod validates a sign method name.
func ParseSignMethod(name string) (SignMethod, error) {
	switch m := SignMethod(name); m {
	case SignRays, SignSDF, SignFlood:
		return m, nil
	}
	return "", errors.Errorf("unknown sign method: %s", name)
}

// NormalizeMesh centers a mesh's bounding box at the
// origin and scales it so that its longest side spans
// [-1, 1].
func NormalizeMesh(m *model3d.Mesh) (*model3d.Mesh, error) {
	min, max := m.Min(), m.Max()
	size := max.Sub(min)
	extent := math.Max(math.Max(size.X, size.Y), size.Z)
	if extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return nil, errors.New("normalize mesh: degenerate bounds")
	}
	center := min.Mid(max)
	scale := 2 / extent
	return m.MapCoords(func(c model3d.Coord3D) model3d.Coord3D {
		return c.Sub(center).Scale(scale)
	}), nil
}

// A Field computes signed distances to a mesh, negative
// inside the mesh.
type Field struct {
	sdf    model3d.SDF
	inside func(c model3d.Coord3D) bool
}

// NewField creates a Field for the mesh.
//
// SignFlood is not supported, since it is only defined on
// a grid.
func NewField(m *model3d.Mesh, method SignMethod) (*Field, error) {
	sdf := model3d.MeshToSDF(m)
	f := &Field{sdf: sdf}
	switch method {
	case SignRays:
		f.inside = NewNonManifoldSolid(m).Contains
	case SignSDF:
		f.inside = func(c model3d.Coord3D) bool {
			return sdf.SDF(c) > 0
		}
	default:
		return nil, errors.Errorf("create field: unsupported sign method: %s", method)
	}
	return f, nil
}

// At gets the signed distance at c.
func (f *Field) At(c model3d.Coord3D) float64 {
	d := math.Abs(f.sdf.SDF(c))
	if f.inside(c) {
		return -d
	}
	return d
}

// VoxelizeOptions configures Voxelize.
type VoxelizeOptions struct {
	// Resolution is the number of samples along each
	// axis of [-1, 1].
	Resolution int

	// Pad surrounds the samples with a layer of Outside
	// voxels, so that extracted surfaces are closed.
	Pad bool

	Sign SignMethod
}

// DefaultVoxelizeOptions gets the options used for mesh
// previews.
func DefaultVoxelizeOptions() VoxelizeOptions {
	return VoxelizeOptions{
		Resolution: 64,
		Pad:        true,
		Sign:       SignRays,
	}
}

// Voxelize normalizes a mesh into [-1, 1] and samples its
// signed distance field on a regular grid.
func Voxelize(m *model3d.Mesh, opts VoxelizeOptions) (*Grid, error) {
	if opts.Resolution < 2 {
		return nil, errors.Errorf("voxelize: invalid resolution %d", opts.Resolution)
	}
	mesh, err := NormalizeMesh(m)
	if err != nil {
		return nil, errors.Wrap(err, "voxelize")
	}

	space := &VoxelSpace{Min: -1, Max: 1, Resolution: opts.Resolution}
	n := opts.Resolution
	grid := NewGrid(n)

	var inside func(idx int, c model3d.Coord3D) bool
	var distance func(c model3d.Coord3D) float64
	if opts.Sign == SignFlood {
		mask := NewVoxelConnector(mesh, space).Inside()
		sdf := model3d.MeshToSDF(mesh)
		inside = func(idx int, c model3d.Coord3D) bool {
			return mask[idx]
		}
		distance = func(c model3d.Coord3D) float64 {
			return math.Abs(sdf.SDF(c))
		}
	} else {
		field, err := NewField(mesh, opts.Sign)
		if err != nil {
			return nil, errors.Wrap(err, "voxelize")
		}
		inside = func(idx int, c model3d.Coord3D) bool {
			return field.inside(c)
		}
		distance = func(c model3d.Coord3D) float64 {
			return math.Abs(field.sdf.SDF(c))
		}
	}

	values := grid.Values()
	essentials.ConcurrentMap(runtime.GOMAXPROCS(0), len(values), func(idx int) {
		vc := VoxelCoord{idx % n, (idx / n) % n, idx / (n * n)}
		c := space.Coord(vc)
		d := distance(c)
		if inside(idx, c) {
			d = -d
		}
		values[idx] = d
	})

	if opts.Pad {
		grid = grid.Pad()
	}
	return grid, nil
}
