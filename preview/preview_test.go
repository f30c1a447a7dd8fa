package preview

import (
	"bytes"
	"context"
	"image/gif"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
	"github.com/unixpickle/sdf-preview/dataset"
)

const boxOBJ = `v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
`

func testViewer(t *testing.T) *Viewer {
	mesh, err := dataset.ReadOBJ(strings.NewReader(boxOBJ))
	require.NoError(t, err)
	return NewViewer(MeshObject(mesh), 16)
}

func TestColorForSDF(t *testing.T) {
	assert.Equal(t, render3d.NewColorRGB(0, 0, 1), ColorForSDF(-0.5))
	assert.Equal(t, render3d.NewColorRGB(1, 0, 0), ColorForSDF(0.2))
	assert.Equal(t, render3d.NewColorRGB(0, 0, 0), ColorForSDF(0))
	assert.Equal(t, OnSurface, ColorForSDF(0))
}

func TestColorFilteredPoints(t *testing.T) {
	points := []dataset.PointSDF{
		{Point: model3d.XYZ(0, 0, 0), SDF: -0.5},
		{Point: model3d.XYZ(1, 1, 1), SDF: 0.2},
		{Point: model3d.XYZ(2, 2, 2), SDF: 0.005},
	}
	colored := ColorPoints(dataset.FilterSDF(points, dataset.DefaultThreshold))
	assert.Equal(t, []ColoredPoint{{Point: model3d.XYZ(1, 1, 1), Color: Outside}}, colored)

	// Without the filter, inside points are blue.
	colored = ColorPoints(points)
	require.Len(t, colored, 3)
	assert.Equal(t, Inside, colored[0].Color)
	assert.Equal(t, Outside, colored[2].Color)
}

func TestYUp(t *testing.T) {
	assert.Equal(t, model3d.XYZ(1, -3, 2), YUp(model3d.XYZ(1, 2, 3)))
}

func TestPointCloudObject(t *testing.T) {
	points := []ColoredPoint{
		{Point: model3d.XYZ(0, 0, 0), Color: Outside},
		{Point: model3d.XYZ(0, 2, 0), Color: Inside},
		{Point: model3d.XYZ(1, 0, 0), Color: Outside},
	}
	radius := PointRadius(points, 2)
	assert.InDelta(t, 0.004, radius, 1e-9)

	obj, err := PointCloudObject(points, radius)
	require.NoError(t, err)
	assert.Len(t, obj, 2)
	assert.InDelta(t, 0, obj.Min().Dist(model3d.XYZ(-radius, -radius, -radius)), 1e-9)
	assert.InDelta(t, 0, obj.Max().Dist(model3d.XYZ(1+radius, radius, 2+radius)), 1e-9)

	_, err = PointCloudObject(nil, 1)
	assert.Error(t, err)
	_, err = PointCloudObject(points, 0)
	assert.Error(t, err)
	assert.Equal(t, 0.0, PointRadius(nil, 2))
}

func TestParseView(t *testing.T) {
	view, err := ParseView(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultView(), view)

	view, err = ParseView(url.Values{"yaw": {"45"}, "pitch": {"120"}, "zoom": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, View{Yaw: 45, Pitch: 89, Zoom: 2}, view)

	parsed, err := ParseView(view.Query())
	require.NoError(t, err)
	assert.Equal(t, view, parsed)

	for _, bad := range []url.Values{{"zoom": {"0"}}, {"yaw": {"left"}}, {"pitch": {"NaN"}}} {
		_, err := ParseView(bad)
		assert.Error(t, err)
	}
}

func TestViewerRender(t *testing.T) {
	v := testViewer(t)
	eye := v.Eye(DefaultView())
	assert.Greater(t, eye.Dist(model3d.Coord3D{}), 2.0)
	assert.Less(t, eye.Y, 0.0)

	img := v.Render(DefaultView())
	require.Equal(t, 16, img.Bounds().Dx())
	center := img.RGBAAt(8, 8)
	corner := img.RGBAAt(0, 0)
	assert.Greater(t, int(center.R)+int(center.G)+int(center.B), 0)
	assert.NotEqual(t, center, corner)
}

func TestViewerRenderGamma(t *testing.T) {
	v := testViewer(t)
	view := DefaultView()
	eye := v.Eye(view)
	caster := &render3d.RayCaster{
		Camera: render3d.NewCameraAt(eye, v.center, fieldOfView),
		Lights: v.lights(eye),
	}
	expected := render3d.NewImage(v.ImageSize, v.ImageSize)
	caster.Render(expected, v.Object)
	assert.Equal(t, expected.RGBA().Pix, v.Render(view).Pix)
}

func TestSaveRotatingGIFColors(t *testing.T) {
	points := []ColoredPoint{
		{Point: model3d.XYZ(-1, 0, 0), Color: Outside},
		{Point: model3d.XYZ(1, 0, 0), Color: Inside},
	}
	obj, err := PointCloudObject(points, 0.5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cloud.gif")
	require.NoError(t, SaveSnapshot(path, obj, 32))

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()
	anim, err := gif.DecodeAll(r)
	require.NoError(t, err)
	require.Len(t, anim.Image, gifFrames)
	assert.Equal(t, 10, anim.Delay[0])

	var reds, blues int
	frame := anim.Image[0]
	for y := frame.Bounds().Min.Y; y < frame.Bounds().Max.Y; y++ {
		for x := frame.Bounds().Min.X; x < frame.Bounds().Max.X; x++ {
			red, _, blue, _ := frame.At(x, y).RGBA()
			if red > blue+0x4000 {
				reds++
			} else if blue > red+0x4000 {
				blues++
			}
		}
	}
	assert.Greater(t, reds, 0)
	assert.Greater(t, blues, 0)

	assert.Error(t, SaveRotatingGIF(path, obj, 32, 0, 10))
}

func TestViewerHandler(t *testing.T) {
	v := testViewer(t)
	closed := make(chan struct{}, 1)
	server := httptest.NewServer(v.Handler("box", func() { closed <- struct{}{} }))
	defer server.Close()

	resp, err := http.Get(server.URL + "/?yaw=10")
	require.NoError(t, err)
	var page bytes.Buffer
	page.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page.String(), "/render.png?")
	assert.Contains(t, page.String(), "zoom in")

	resp, err = http.Get(server.URL + "/render.png?yaw=30")
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())

	resp, err = http.Get(server.URL + "/render.png?zoom=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(server.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+"/close", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	select {
	case <-closed:
	default:
		t.Error("close callback was not called")
	}
}

func TestViewerServeClose(t *testing.T) {
	v := testViewer(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- v.ServeListener(context.Background(), listener, "box")
	}()

	resp, err := http.Post("http://"+listener.Addr().String()+"/close", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("viewer did not stop after close")
	}
}

func TestViewerServeCancel(t *testing.T) {
	v := testViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- v.Serve(ctx, "127.0.0.1:0", "box")
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("viewer did not stop after cancel")
	}
}
