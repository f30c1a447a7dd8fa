package preview

import (
	"bytes"
	"context"
	"html/template"
	"image"
	"image/png"
	"log"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
)

const (
	DefaultImageSize = 500

	fieldOfView = math.Pi / 4
	maxPitch    = 89
)

// A View is an orbit camera position around an object.
type View struct {
	// Yaw and Pitch are in degrees.
	Yaw   float64
	Pitch float64

	// Zoom scales the object on screen.
	Zoom float64
}

// DefaultView looks at the front of an object from
// slightly above.
func DefaultView() View {
	return View{Yaw: -90, Pitch: 20, Zoom: 1}
}

// ParseView reads a View from query parameters, using the
// default for missing values.
func ParseView(values url.Values) (View, error) {
	view := DefaultView()
	fields := []struct {
		name  string
		value *float64
	}{
		{"yaw", &view.Yaw},
		{"pitch", &view.Pitch},
		{"zoom", &view.Zoom},
	}
	for _, f := range fields {
		s := values.Get(f.name)
		if s == "" {
			continue
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return view, errors.Errorf("parse view: invalid %s: %q", f.name, s)
		}
		*f.value = x
	}
	if view.Zoom <= 0 {
		return view, errors.Errorf("parse view: zoom must be positive")
	}
	view.Pitch = math.Max(-maxPitch, math.Min(maxPitch, view.Pitch))
	return view, nil
}

// Query encodes the view as query parameters.
func (v View) Query() url.Values {
	format := func(x float64) string {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return url.Values{
		"yaw":   []string{format(v.Yaw)},
		"pitch": []string{format(v.Pitch)},
		"zoom":  []string{format(v.Zoom)},
	}
}

// A Viewer renders an object from orbit views, lit by three
// lights in the style of a studio setup.
type Viewer struct {
	Object    render3d.Object
	ImageSize int

	center model3d.Coord3D
	radius float64
}

// NewViewer creates a viewer centered on the object.
func NewViewer(obj render3d.Object, imageSize int) *Viewer {
	min, max := obj.Min(), obj.Max()
	radius := max.Dist(min) / 2
	if radius == 0 {
		radius = 1
	}
	return &Viewer{
		Object:    obj,
		ImageSize: imageSize,
		center:    min.Mid(max),
		radius:    radius,
	}
}

// Eye gets the camera position for a view.
func (v *Viewer) Eye(view View) model3d.Coord3D {
	yaw := view.Yaw * math.Pi / 180
	pitch := view.Pitch * math.Pi / 180
	direction := model3d.XYZ(
		math.Cos(pitch)*math.Cos(yaw),
		math.Cos(pitch)*math.Sin(yaw),
		math.Sin(pitch),
	)
	distance := 1.1 * v.radius / math.Sin(fieldOfView/2) / view.Zoom
	return v.center.Add(direction.Scale(distance))
}

// Render renders the object from the view.
func (v *Viewer) Render(view View) *image.RGBA {
	eye := v.Eye(view)
	caster := &render3d.RayCaster{
		Camera: render3d.NewCameraAt(eye, v.center, fieldOfView),
		Lights: v.lights(eye),
	}
	img := render3d.NewImage(v.ImageSize, v.ImageSize)
	caster.Render(img, v.Object)
	return img.RGBA()
}

func (v *Viewer) lights(eye model3d.Coord3D) []*render3d.PointLight {
	distance := v.radius * 10
	directions := []model3d.Coord3D{
		eye.Sub(v.center).Normalize(),
		model3d.XYZ(1, 1, 1).Normalize(),
		model3d.XYZ(-1, -0.5, 0.5).Normalize(),
	}
	lights := make([]*render3d.PointLight, len(directions))
	for i, d := range directions {
		lights[i] = &render3d.PointLight{
			Origin: v.center.Add(d.Scale(distance)),
			Color:  render3d.NewColor(0.5),
		}
	}
	return lights
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><title>{{.Title}}</title></head>
<body style="text-align: center; font-family: sans-serif">
<h3>{{.Title}}</h3>
<img src="/render.png?{{.Query}}" width="{{.Size}}" height="{{.Size}}">
<p>
{{range .Links}}<a href="/?{{.Query}}">{{.Label}}</a> {{end}}
</p>
<form action="/close" method="post"><button>Close viewer</button></form>
</body>
</html>
`))

type pageLink struct {
	Label string
	Query string
}

// Handler creates an HTTP handler for the viewer UI.
//
// The close callback is called when the user closes the
// viewer from the page.
func (v *Viewer) Handler(title string, closeFunc func()) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		view, err := ParseView(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		moves := []struct {
			label string
			view  View
		}{
			{"left", View{Yaw: view.Yaw - 30, Pitch: view.Pitch, Zoom: view.Zoom}},
			{"right", View{Yaw: view.Yaw + 30, Pitch: view.Pitch, Zoom: view.Zoom}},
			{"up", View{Yaw: view.Yaw, Pitch: math.Min(maxPitch, view.Pitch+15), Zoom: view.Zoom}},
			{"down", View{Yaw: view.Yaw, Pitch: math.Max(-maxPitch, view.Pitch-15), Zoom: view.Zoom}},
			{"zoom in", View{Yaw: view.Yaw, Pitch: view.Pitch, Zoom: view.Zoom * 1.25}},
			{"zoom out", View{Yaw: view.Yaw, Pitch: view.Pitch, Zoom: view.Zoom / 1.25}},
			{"reset", DefaultView()},
		}
		links := make([]pageLink, len(moves))
		for i, m := range moves {
			links[i] = pageLink{Label: m.label, Query: m.view.Query().Encode()}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = pageTemplate.Execute(w, map[string]interface{}{
			"Title": title,
			"Query": view.Query().Encode(),
			"Size":  v.ImageSize,
			"Links": links,
		})
		if err != nil {
			log.Println("Error writing page:", err)
		}
	})
	mux.HandleFunc("/render.png", func(w http.ResponseWriter, r *http.Request) {
		view, err := ParseView(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, v.Render(view)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/close", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Viewer closed.\n"))
		closeFunc()
	})
	return mux
}

// Serve runs the viewer at addr until ctx is done or the
// user closes the viewer.
func (v *Viewer) Serve(ctx context.Context, addr, title string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "serve viewer")
	}
	return v.ServeListener(ctx, listener, title)
}

// ServeListener is like Serve, but uses an existing
// listener, which is closed when the viewer stops.
func (v *Viewer) ServeListener(ctx context.Context, listener net.Listener, title string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Handler:           v.Handler(title, cancel),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	log.Printf("Viewing %s at http://%s (Ctrl-C to close)", title, listener.Addr())

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve viewer")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shut down viewer")
	}
	return nil
}
