package voxels

import (
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// Outside is the value of padding voxels and of any point
// beyond the bounds of a Grid.
const Outside = 1.0

// A Grid is a dense cube of signed distance values.
//
// As a model3d.Solid, a Grid lives in index space, so the
// voxel (x, y, z) is at the point (x, y, z).
type Grid struct {
	Size int

	// Level is the isosurface value. Points with values
	// below Level are contained in the solid.
	Level float64

	values []float64
}

// NewGrid creates a grid filled with zeros.
func NewGrid(size int) *Grid {
	return &Grid{
		Size:   size,
		values: make([]float64, size*size*size),
	}
}

// ReadGrid reads a Grid as a JSON array with z on the
// outer dimension, then y, then x.
func ReadGrid(r io.Reader) (*Grid, error) {
	var object [][][]float64
	dec := json.NewDecoder(r)
	if err := dec.Decode(&object); err != nil {
		return nil, errors.Wrap(err, "read voxel grid")
	}
	size := len(object)
	if size == 0 {
		return nil, errors.New("read voxel grid: empty grid")
	}
	result := make([]float64, 0, size*size*size)
	for _, yPlane := range object {
		if len(yPlane) != size {
			return nil, errors.New("read voxel grid: invalid dimensions")
		}
		for _, xLine := range yPlane {
			if len(xLine) != size {
				return nil, errors.New("read voxel grid: invalid dimensions")
			}
			result = append(result, xLine...)
		}
	}
	return &Grid{
		Size:   size,
		values: result,
	}, nil
}

// Write encodes the grid in the format read by ReadGrid.
func (g *Grid) Write(w io.Writer) error {
	object := make([][][]float64, g.Size)
	for z := range object {
		object[z] = make([][]float64, g.Size)
		for y := range object[z] {
			start := g.index(0, y, z)
			object[z][y] = g.values[start : start+g.Size]
		}
	}
	return errors.Wrap(json.NewEncoder(w).Encode(object), "write voxel grid")
}

// Values gets the underlying values, with x varying
// fastest and z slowest.
func (g *Grid) Values() []float64 {
	return g.values
}

// Min gets the minimum of the bounding box.
func (g *Grid) Min() model3d.Coord3D {
	return model3d.Coord3D{}
}

// Max gets the maximum of the bounding box.
func (g *Grid) Max() model3d.Coord3D {
	m := float64(g.Size - 1)
	return model3d.XYZ(m, m, m)
}

// Contains checks if the interpolated value at the point
// is below the level.
func (g *Grid) Contains(c model3d.Coord3D) bool {
	return model3d.InBounds(g, c) && g.Interp(c) < g.Level
}

// Interp gets a trilinear interpolated value for the grid
// at the given point.
func (g *Grid) Interp(c model3d.Coord3D) float64 {
	xs, xFracs := roundedCoords(c.X)
	ys, yFracs := roundedCoords(c.Y)
	zs, zFracs := roundedCoords(c.Z)
	var value float64
	for i, x := range xs {
		xFrac := xFracs[i]
		for j, y := range ys {
			yFrac := yFracs[j]
			for k, z := range zs {
				zFrac := zFracs[k]
				if frac := xFrac * yFrac * zFrac; frac != 0 {
					value += frac * g.Get(x, y, z)
				}
			}
		}
	}
	return value
}

// Get gets the exact value at integer coordinates.
// If a coordinate is out of bounds, Outside is returned.
func (g *Grid) Get(x, y, z int) float64 {
	if !g.inBounds(x, y, z) {
		return Outside
	}
	return g.values[g.index(x, y, z)]
}

// Set updates the value at integer coordinates.
func (g *Grid) Set(x, y, z int, value float64) {
	if !g.inBounds(x, y, z) {
		panic("voxel coordinate out of bounds")
	}
	g.values[g.index(x, y, z)] = value
}

// Pad creates a grid with an extra layer of Outside voxels
// on every face.
func (g *Grid) Pad() *Grid {
	res := NewGrid(g.Size + 2)
	for i := range res.values {
		res.values[i] = Outside
	}
	for z := 0; z < g.Size; z++ {
		for y := 0; y < g.Size; y++ {
			start := g.index(0, y, z)
			copy(res.values[res.index(1, y+1, z+1):], g.values[start:start+g.Size])
		}
	}
	res.Level = g.Level
	return res
}

func (g *Grid) index(x, y, z int) int {
	return x + g.Size*(y+z*g.Size)
}

func (g *Grid) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Size && y < g.Size && z < g.Size
}

func roundedCoords(c float64) (vals [2]int, fracs [2]float64) {
	min := int(math.Floor(c))
	max := min + 1
	minFrac := float64(max) - c
	maxFrac := 1 - minFrac
	return [2]int{min, max}, [2]float64{minFrac, maxFrac}
}
