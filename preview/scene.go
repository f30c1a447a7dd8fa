// Package preview renders meshes and SDF point clouds and
// serves them in an interactive viewer.
package preview

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
	"github.com/unixpickle/sdf-preview/dataset"
)

// Point colors by SDF sign.
var (
	// Inside is blue, for negative distances.
	Inside = render3d.NewColorRGB(0, 0, 1)

	// Outside is red, for positive distances.
	Outside = render3d.NewColorRGB(1, 0, 0)

	// OnSurface is black, for distances of exactly zero.
	OnSurface = render3d.NewColorRGB(0, 0, 0)
)

// ColorForSDF gets the color of a point with the given
// signed distance: blue inside, red outside, and black
// exactly on the surface.
func ColorForSDF(sdf float64) render3d.Color {
	if sdf < 0 {
		return Inside
	} else if sdf > 0 {
		return Outside
	}
	return OnSurface
}

// YUp maps a point from a Y-up frame, as used by ShapeNet,
// into the Z-up frame used for rendering.
func YUp(c model3d.Coord3D) model3d.Coord3D {
	return model3d.XYZ(c.X, -c.Z, c.Y)
}

// MeshObject creates a renderable object for a Y-up mesh.
func MeshObject(mesh *model3d.Mesh) render3d.Object {
	return render3d.Objectify(mesh.MapCoords(YUp), nil)
}

// A ColoredPoint is a point of a point cloud.
type ColoredPoint struct {
	Point model3d.Coord3D
	Color render3d.Color
}

// ColorPoints colors each point by the sign of its SDF.
func ColorPoints(points []dataset.PointSDF) []ColoredPoint {
	res := make([]ColoredPoint, len(points))
	for i, p := range points {
		res[i] = ColoredPoint{Point: p.Point, Color: ColorForSDF(p.SDF)}
	}
	return res
}

// PointRadius converts a point size into a sphere radius
// relative to the extent of the points, so that a size of
// 1 is roughly one pixel in a 500 pixel image.
func PointRadius(points []ColoredPoint, pointSize float64) float64 {
	if len(points) == 0 {
		return 0
	}
	min, max := points[0].Point, points[0].Point
	for _, p := range points[1:] {
		min = min.Min(p.Point)
		max = max.Max(p.Point)
	}
	size := max.Sub(min)
	extent := math.Max(math.Max(size.X, size.Y), size.Z)
	if extent == 0 {
		extent = 1
	}
	return extent * pointSize / 1000
}

// PointCloudObject creates a renderable object with a
// sphere for each Y-up point.
func PointCloudObject(points []ColoredPoint, radius float64) (render3d.Object, error) {
	if len(points) == 0 {
		return nil, errors.New("point cloud object: no points")
	}
	if radius <= 0 {
		return nil, errors.New("point cloud object: radius must be positive")
	}
	groups := map[render3d.Color][]model3d.Collider{}
	for _, p := range points {
		groups[p.Color] = append(groups[p.Color], &model3d.Sphere{
			Center: YUp(p.Point),
			Radius: radius,
		})
	}
	colors := make([]render3d.Color, 0, len(groups))
	for c := range groups {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		c1, c2 := colors[i], colors[j]
		if c1.X != c2.X {
			return c1.X < c2.X
		} else if c1.Y != c2.Y {
			return c1.Y < c2.Y
		}
		return c1.Z < c2.Z
	})

	var obj render3d.JoinedObject
	for _, c := range colors {
		obj = append(obj, &render3d.ColliderObject{
			Collider: model3d.NewJoinedCollider(groups[c]),
			Material: &render3d.LambertMaterial{DiffuseColor: c},
		})
	}
	return obj, nil
}
