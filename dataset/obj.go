package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// LoadOBJ reads a triangle mesh from an OBJ file.
func LoadOBJ(path string) (*model3d.Mesh, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load obj")
	}
	defer r.Close()
	return ReadOBJ(r)
}

// ReadOBJ decodes the vertices and faces of an OBJ file.
//
// Polygons are split into triangle fans. Texture
// coordinates, normals, groups and materials are ignored.
func ReadOBJ(r io.Reader) (*model3d.Mesh, error) {
	var vertices []model3d.Coord3D
	var triangles []*model3d.Triangle

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			c, err := parseVertex(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "read obj: line %d", lineNum)
			}
			vertices = append(vertices, c)
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("read obj: line %d: face has %d vertices",
					lineNum, len(fields)-1)
			}
			indices := make([]int, len(fields)-1)
			for i, f := range fields[1:] {
				idx, err := parseFaceIndex(f, len(vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "read obj: line %d", lineNum)
				}
				indices[i] = idx
			}
			for i := 1; i+1 < len(indices); i++ {
				triangles = append(triangles, &model3d.Triangle{
					vertices[indices[0]],
					vertices[indices[i]],
					vertices[indices[i+1]],
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read obj")
	}
	if len(triangles) == 0 {
		return nil, errors.New("read obj: no faces")
	}
	return model3d.NewMeshTriangles(triangles), nil
}

func parseVertex(fields []string) (model3d.Coord3D, error) {
	// Some exporters append vertex colors after xyz.
	if len(fields) < 3 {
		return model3d.Coord3D{}, errors.Errorf("vertex has %d components", len(fields))
	}
	var values [3]float64
	for i := range values {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return model3d.Coord3D{}, errors.Wrap(err, "parse vertex")
		}
		values[i] = x
	}
	return model3d.XYZ(values[0], values[1], values[2]), nil
}

// parseFaceIndex turns an OBJ face reference like "3",
// "3/1", "3//2" or "-1" into a zero-based vertex index.
func parseFaceIndex(field string, numVertices int) (int, error) {
	if i := strings.IndexByte(field, '/'); i >= 0 {
		field = field[:i]
	}
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, errors.Wrap(err, "parse face")
	}
	if idx < 0 {
		idx += numVertices
	} else {
		idx--
	}
	if idx < 0 || idx >= numVertices {
		return 0, errors.Errorf("face index %s out of range", field)
	}
	return idx, nil
}
