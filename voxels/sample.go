package voxels

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/sdf-preview/dataset"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleOptions configures SampleNearSurface.
type SampleOptions struct {
	NumPoints int
	Sign      SignMethod

	// UniformFraction is the fraction of points drawn
	// uniformly from [-1, 1]^3 instead of near the
	// surface.
	UniformFraction float64
}

// DefaultSampleOptions gets the options used to produce
// result.csv files.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{
		NumPoints:       250000,
		Sign:            SignRays,
		UniformFraction: 0.05,
	}
}

var surfaceNoise = [2]float64{0.0025, 0.00025}

// SampleNearSurface normalizes a mesh into [-1, 1] and
// samples labeled points, mostly perturbed points on the
// surface.
func SampleNearSurface(m *model3d.Mesh, opts SampleOptions, rng *rand.Rand) ([]dataset.PointSDF, error) {
	if opts.NumPoints < 0 {
		return nil, errors.Errorf("sample near surface: invalid point count %d", opts.NumPoints)
	}
	mesh, err := NormalizeMesh(m)
	if err != nil {
		return nil, errors.Wrap(err, "sample near surface")
	}
	field, err := NewField(mesh, opts.Sign)
	if err != nil {
		return nil, errors.Wrap(err, "sample near surface")
	}

	triangles := mesh.TriangleSlice()
	cumulative := make([]float64, len(triangles))
	var total float64
	for i, t := range triangles {
		total += t.Area()
		cumulative[i] = total
	}
	if total == 0 {
		return nil, errors.New("sample near surface: mesh has no area")
	}
	var noise [2]distuv.Normal
	for i, sigma := range surfaceNoise {
		noise[i] = distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}
	}

	numUniform := int(math.Round(float64(opts.NumPoints) * opts.UniformFraction))
	result := make([]dataset.PointSDF, 0, opts.NumPoints)
	for i := 0; i < opts.NumPoints; i++ {
		var c model3d.Coord3D
		if i < numUniform {
			c = model3d.XYZ(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		} else {
			idx := sort.SearchFloat64s(cumulative, rng.Float64()*total)
			if idx == len(triangles) {
				idx--
			}
			n := noise[i%len(noise)]
			c = pointInTriangle(triangles[idx], rng).Add(model3d.XYZ(n.Rand(), n.Rand(), n.Rand()))
		}
		result = append(result, dataset.PointSDF{Point: c, SDF: field.At(c)})
	}
	return result, nil
}

func pointInTriangle(t *model3d.Triangle, rng *rand.Rand) model3d.Coord3D {
	r1 := math.Sqrt(rng.Float64())
	r2 := rng.Float64()
	return t[0].Scale(1 - r1).Add(t[1].Scale(r1 * (1 - r2))).Add(t[2].Scale(r1 * r2))
}
