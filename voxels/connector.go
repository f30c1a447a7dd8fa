package voxels

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

type VoxelCoord [3]int

// A VoxelSpace maps integer lattice coordinates to points
// evenly spaced between Min and Max on every axis, like
// linspace(Min, Max, Resolution).
type VoxelSpace struct {
	Min        float64
	Max        float64
	Resolution int
}

// Step gets the distance between neighboring lattice
// points.
func (v *VoxelSpace) Step() float64 {
	if v.Resolution < 2 {
		return v.Max - v.Min
	}
	return (v.Max - v.Min) / float64(v.Resolution-1)
}

// Coord gets the point for a lattice coordinate. Indices
// outside [0, Resolution) extrapolate past the bounds.
func (v *VoxelSpace) Coord(vc VoxelCoord) model3d.Coord3D {
	step := v.Step()
	return model3d.XYZ(
		v.Min+float64(vc[0])*step,
		v.Min+float64(vc[1])*step,
		v.Min+float64(vc[2])*step,
	)
}

// A VoxelConnector determines which lattice points are
// enclosed by a mesh surface, based on direct
// connectivity between neighboring points.
type VoxelConnector struct {
	Space    *VoxelSpace
	Collider model3d.Collider
}

// NewVoxelConnector creates a new VoxelConnector for a
// given 3D model and lattice.
func NewVoxelConnector(m *model3d.Mesh, space *VoxelSpace) *VoxelConnector {
	return &VoxelConnector{
		Space:    space,
		Collider: model3d.MeshToCollider(m),
	}
}

// Inside computes, for every lattice point, whether it is
// unreachable from outside the lattice without crossing
// or touching the surface.
//
// Points lying on the surface are never reached, so they
// are reported as inside.
//
// The result is indexed like a Grid of size Resolution.
func (v *VoxelConnector) Inside() []bool {
	reachable := NewBorderVoxels(v.Space.Resolution)

	queue := []VoxelCoord{{-1, -1, -1}}
	*reachable.At(queue[0]) = true

	for len(queue) > 0 {
		coord := queue[0]
		queue = queue[1:]
		reachable.Neighbors(coord, func(neighbor VoxelCoord) {
			r := reachable.At(neighbor)
			if !*r && v.Connect(coord, neighbor) {
				*r = true
				queue = append(queue, neighbor)
			}
		})
	}

	n := v.Space.Resolution
	result := make([]bool, n*n*n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				result[x+n*(y+n*z)] = !*reachable.At(VoxelCoord{x, y, z})
			}
		}
	}
	return result
}

// Connect checks if the segment from v1 to v2 stays clear
// of the surface.
//
// A segment is blocked if either endpoint touches the
// surface, or if the segment or any of a few rays offset
// slightly from it hits the surface. The offset rays catch
// segments that pass exactly through a triangle edge or
// vertex.
func (v *VoxelConnector) Connect(v1, v2 VoxelCoord) bool {
	c1 := v.Space.Coord(v1)
	c2 := v.Space.Coord(v2)

	// If the sphere containing the line segment does
	// not contain anything, no surface can be in the
	// way.
	//
	// This is faster than a ray collision, since it
	// only has to check a local neighborhood.
	if !v.Collider.SphereCollision(c1.Mid(c2), c1.Dist(c2)/(2-1e-8)) {
		return true
	}

	step := v.Space.Step()
	epsilon := step * 1e-6
	if v.Collider.SphereCollision(c1, epsilon) || v.Collider.SphereCollision(c2, epsilon) {
		return false
	}

	direction := c2.Sub(c1)
	b1, b2 := orthoBasis(direction)
	offset := step * 1e-4
	origins := []model3d.Coord3D{
		c1,
		c1.Add(b1.Scale(offset)),
		c1.Sub(b1.Scale(offset)),
		c1.Add(b2.Scale(offset)),
		c1.Sub(b2.Scale(offset)),
	}
	for _, origin := range origins {
		ray := &model3d.Ray{Origin: origin, Direction: direction}
		if coll, ok := v.Collider.FirstRayCollision(ray); ok && coll.Scale <= 1+1e-8 {
			return false
		}
	}
	return true
}

// orthoBasis gets two unit vectors orthogonal to d and to
// each other.
func orthoBasis(d model3d.Coord3D) (model3d.Coord3D, model3d.Coord3D) {
	axis := model3d.X(1)
	if math.Abs(d.X) > math.Abs(d.Y) || math.Abs(d.X) > math.Abs(d.Z) {
		axis = model3d.Y(1)
		if math.Abs(d.Y) > math.Abs(d.Z) {
			axis = model3d.Z(1)
		}
	}
	b1 := d.Cross(axis).Normalize()
	b2 := d.Cross(b1).Normalize()
	return b1, b2
}

// BorderVoxels stores a flag per lattice point, plus a
// one-voxel border around the lattice.
type BorderVoxels struct {
	GridSize int
	Data     []bool
}

func NewBorderVoxels(gridSize int) *BorderVoxels {
	g := gridSize + 2
	return &BorderVoxels{
		GridSize: gridSize,
		Data:     make([]bool, g*g*g),
	}
}

func (b *BorderVoxels) At(coord VoxelCoord) *bool {
	size := b.GridSize + 2
	return &b.Data[(coord[2]+1)+((coord[1]+1)+(coord[0]+1)*size)*size]
}

func (b *BorderVoxels) Neighbors(coord VoxelCoord, f func(VoxelCoord)) {
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				newCoord := VoxelCoord{coord[0] + x, coord[1] + y, coord[2] + z}
				if b.InBounds(newCoord) {
					f(newCoord)
				}
			}
		}
	}
}

func (b *BorderVoxels) InBounds(c VoxelCoord) bool {
	for _, x := range c {
		if x < -1 || x > b.GridSize {
			return false
		}
	}
	return true
}
