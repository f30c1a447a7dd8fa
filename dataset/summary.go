package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of SDF values in a
// point table.
type Summary struct {
	Count   int
	Inside  int
	Outside int

	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes a Summary of the points.
func Summarize(points []PointSDF) Summary {
	s := Summary{Count: len(points)}
	if len(points) == 0 {
		return s
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.SDF
		if p.SDF < 0 {
			s.Inside++
		} else if p.SDF > 0 {
			s.Outside++
		}
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d points (%d inside, %d outside), sdf in [%.4f, %.4f], mean %.4f, std %.4f",
		s.Count, s.Inside, s.Outside, s.Min, s.Max, s.Mean, s.StdDev)
}
