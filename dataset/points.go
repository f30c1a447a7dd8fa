package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// DefaultThreshold is the minimum SDF kept by the point
// cloud preview.
const DefaultThreshold = 0.01

var pointColumns = [4]string{"x", "y", "z", "sdf"}

// A PointSDF is a sample point labeled with its signed
// distance to a surface. Negative distances are inside.
type PointSDF struct {
	Point model3d.Coord3D
	SDF   float64
}

// LoadPointSDFs reads a CSV table of points from a file.
func LoadPointSDFs(path string) ([]PointSDF, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load points")
	}
	defer r.Close()
	return ReadPointSDFs(r)
}

// ReadPointSDFs decodes a CSV table with a header row
// naming at least the columns x, y, z and sdf.
//
// Columns may appear in any order, and other columns are
// ignored.
func ReadPointSDFs(r io.Reader) ([]PointSDF, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read points: header")
	}
	var colIndices [4]int
	for i, name := range pointColumns {
		colIndices[i] = -1
		for j, h := range header {
			if h == name {
				colIndices[i] = j
				break
			}
		}
		if colIndices[i] == -1 {
			return nil, errors.Errorf("read points: missing column %q", name)
		}
	}

	var result []PointSDF
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "read points")
		}
		var values [4]float64
		for i, col := range colIndices {
			values[i], err = strconv.ParseFloat(record[col], 64)
			if err != nil {
				line, _ := reader.FieldPos(col)
				return nil, errors.Wrapf(err, "read points: line %d", line)
			}
		}
		result = append(result, PointSDF{
			Point: model3d.XYZ(values[0], values[1], values[2]),
			SDF:   values[3],
		})
	}
	return result, nil
}

// SavePointSDFs writes points to a CSV file.
func SavePointSDFs(path string, points []PointSDF) error {
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save points")
	}
	defer w.Close()
	if err := WritePointSDFs(w, points); err != nil {
		return err
	}
	return w.Close()
}

// WritePointSDFs encodes points in the format read by
// ReadPointSDFs.
func WritePointSDFs(w io.Writer, points []PointSDF) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(pointColumns[:]); err != nil {
		return errors.Wrap(err, "write points")
	}
	format := func(x float64) string {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	for _, p := range points {
		record := []string{format(p.Point.X), format(p.Point.Y), format(p.Point.Z), format(p.SDF)}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "write points")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "write points")
}

// FilterSDF returns the points whose SDF is strictly
// greater than threshold, in their original order.
func FilterSDF(points []PointSDF, threshold float64) []PointSDF {
	var result []PointSDF
	for _, p := range points {
		if p.SDF > threshold {
			result = append(result, p)
		}
	}
	return result
}
