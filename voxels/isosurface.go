package voxels

import (
	"sort"

	"github.com/unixpickle/model3d/model3d"
)

const isosurfaceSearchIters = 8

// A Surface is a triangle mesh extracted from a Grid, with
// vertices in the grid's index space.
type Surface struct {
	Vertices []model3d.Coord3D

	// Faces holds vertex index triples.
	Faces [][3]int

	// Normals holds a unit normal per vertex, pointing
	// out of the solid.
	Normals []model3d.Coord3D
}

// Isosurface runs marching cubes over the grid, extracting
// the surface where the grid crosses level.
//
// The result is deterministic, with vertices and faces in
// sorted order.
func Isosurface(g *Grid, level float64) *Surface {
	solid := *g
	solid.Level = level
	mesh := model3d.MarchingCubesSearch(&solid, 1, isosurfaceSearchIters)

	vertices := mesh.VertexSlice()
	sort.Slice(vertices, func(i, j int) bool {
		return lessCoord(vertices[i], vertices[j])
	})
	indices := make(map[model3d.Coord3D]int, len(vertices))
	for i, v := range vertices {
		indices[v] = i
	}

	normals := make([]model3d.Coord3D, len(vertices))
	faces := make([][3]int, 0, len(mesh.TriangleSlice()))
	for _, t := range mesh.TriangleSlice() {
		var face [3]int
		for i, c := range t {
			face[i] = indices[c]
		}
		faces = append(faces, face)

		weighted := t.Normal().Scale(t.Area())
		for _, idx := range face {
			normals[idx] = normals[idx].Add(weighted)
		}
	}
	sort.Slice(faces, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if faces[i][k] != faces[j][k] {
				return faces[i][k] < faces[j][k]
			}
		}
		return false
	})
	for i, n := range normals {
		if norm := n.Norm(); norm > 0 {
			normals[i] = n.Scale(1 / norm)
		}
	}

	return &Surface{
		Vertices: vertices,
		Faces:    faces,
		Normals:  normals,
	}
}

// Mesh builds a triangle mesh from the surface.
func (s *Surface) Mesh() *model3d.Mesh {
	mesh := model3d.NewMesh()
	for _, f := range s.Faces {
		mesh.Add(&model3d.Triangle{s.Vertices[f[0]], s.Vertices[f[1]], s.Vertices[f[2]]})
	}
	return mesh
}

func lessCoord(c1, c2 model3d.Coord3D) bool {
	if c1.X != c2.X {
		return c1.X < c2.X
	} else if c1.Y != c2.Y {
		return c1.Y < c2.Y
	}
	return c1.Z < c2.Z
}
