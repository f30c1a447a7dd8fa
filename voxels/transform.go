package voxels

import (
	"math/rand/v2"

	"github.com/unixpickle/model3d/model3d"
)

// RandomRotationMatrix draws a uniformly random proper
// rotation (determinant 1) from rng.
func RandomRotationMatrix(rng *rand.Rand) *model3d.Matrix3 {
	v1 := randomUnit(rng)
	v2 := randomUnit(rng).ProjectOut(v1).Normalize()

	// The cross product completes a right-handed basis,
	// so the result is never a mirror.
	v3 := v1.Cross(v2)
	return model3d.NewMatrix3Columns(v1, v2, v3)
}

// RandomRotation rotates a mesh about the origin by a
// rotation drawn from rng.
func RandomRotation(mesh *model3d.Mesh, rng *rand.Rand) *model3d.Mesh {
	transform := &model3d.Matrix3Transform{Matrix: RandomRotationMatrix(rng)}
	return mesh.MapCoords(transform.Apply)
}

func randomUnit(rng *rand.Rand) model3d.Coord3D {
	for {
		c := model3d.XYZ(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		if norm := c.Norm(); norm > 1e-8 {
			return c.Scale(1 / norm)
		}
	}
}
