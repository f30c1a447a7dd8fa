package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

const cubeOBJ = `# unit cube
mtllib model_normalized.mtl
o cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vt 0 0
vn 0 0 -1
usemtl default
f 1/1/1 4/1/1 3/1/1 2/1/1
f 5//1 6//1 7//1 8//1
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f -4 -8 -5 -1
`

func TestModelPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "02818832", "abc", "models", "model_normalized.obj"),
		MeshPath("data", "02818832", "abc"))
	assert.Equal(t, filepath.Join("data", "02818832", "abc", "models", "result.csv"),
		ResultPath("data", "02818832", "abc"))
}

func TestReadOBJ(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(cubeOBJ))
	require.NoError(t, err)
	assert.Len(t, mesh.TriangleSlice(), 12)
	assert.Len(t, mesh.VertexSlice(), 8)
	assert.Equal(t, model3d.XYZ(0, 0, 0), mesh.Min())
	assert.Equal(t, model3d.XYZ(1, 1, 1), mesh.Max())
}

func TestReadOBJErrors(t *testing.T) {
	cases := map[string]string{
		"no faces":     "v 0 0 0\nv 1 0 0\nv 0 1 0\n",
		"bad vertex":   "v 0 zero 0\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad index":    "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"zero index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"bad relative": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 -2 -4\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadOBJMissing(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}

func TestReadPointSDFs(t *testing.T) {
	data := ",sdf,z,y,x\n0,-0.5,0,0,0\n1,0.2,1,1,1\n2,0.005,2,2,2\n"
	points, err := ReadPointSDFs(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, PointSDF{Point: model3d.XYZ(1, 1, 1), SDF: 0.2}, points[1])
	assert.Equal(t, -0.5, points[0].SDF)
}

func TestReadPointSDFsErrors(t *testing.T) {
	_, err := ReadPointSDFs(strings.NewReader("x,y,z\n1,2,3\n"))
	assert.Error(t, err)

	_, err = ReadPointSDFs(strings.NewReader("x,y,z,sdf\n1,2,3,nope\n"))
	assert.Error(t, err)

	_, err = ReadPointSDFs(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPointSDFsFile(t *testing.T) {
	points := []PointSDF{
		{Point: model3d.XYZ(0.25, -1, 3), SDF: -0.125},
		{Point: model3d.XYZ(1e-3, 2, 0), SDF: 0.5},
	}
	path := filepath.Join(t.TempDir(), ResultFile)
	require.NoError(t, SavePointSDFs(path, points))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("x,y,z,sdf\n")))

	loaded, err := LoadPointSDFs(path)
	require.NoError(t, err)
	assert.Equal(t, points, loaded)
}

func TestFilterSDF(t *testing.T) {
	points := []PointSDF{
		{Point: model3d.XYZ(0, 0, 0), SDF: -0.5},
		{Point: model3d.XYZ(1, 1, 1), SDF: 0.2},
		{Point: model3d.XYZ(2, 2, 2), SDF: 0.005},
		{Point: model3d.XYZ(3, 3, 3), SDF: 0.01},
		{Point: model3d.XYZ(4, 4, 4), SDF: 0.3},
	}
	filtered := FilterSDF(points, DefaultThreshold)
	assert.Equal(t, []PointSDF{points[1], points[4]}, filtered)
	assert.Len(t, points, 5)

	for _, p := range filtered {
		assert.Greater(t, p.SDF, 0.0)
	}

	assert.Len(t, FilterSDF(points, -1), 5)
	assert.Empty(t, FilterSDF(points, 1))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]PointSDF{{SDF: -1}, {SDF: 0}, {SDF: 1}, {SDF: 2}})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1, s.Inside)
	assert.Equal(t, 2, s.Outside)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 2.0, s.Max)
	assert.InDelta(t, 0.5, s.Mean, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Contains(t, s.String(), "4 points")

	assert.Equal(t, Summary{}, Summarize(nil))
}
