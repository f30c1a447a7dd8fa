package preview

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/render3d"
)

const (
	gridRows  = 3
	gifFrames = 20
	gifFPS    = 10.0
)

// SaveSnapshot renders an object to a file without a
// viewer. A .gif path produces a rotating animation, and
// any other path a grid of random views.
func SaveSnapshot(path string, obj render3d.Object, imageSize int) error {
	if strings.ToLower(filepath.Ext(path)) == ".gif" {
		return SaveRotatingGIF(path, obj, imageSize, gifFrames, gifFPS)
	}
	err := render3d.SaveRandomGrid(path, obj, gridRows, gridRows, imageSize, nil)
	return errors.Wrap(err, "save snapshot")
}

// SaveRotatingGIF saves a color animation of the object
// turning a full circle about the vertical axis.
func SaveRotatingGIF(path string, obj render3d.Object, imageSize, frames int, fps float64) error {
	if frames < 1 || fps <= 0 {
		return errors.New("save rotating gif: invalid frame count or rate")
	}
	viewer := NewViewer(obj, imageSize)
	start := DefaultView()
	delay := int(math.Round(100 / fps))
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{}
	for i := 0; i < frames; i++ {
		view := start
		view.Yaw += 360 * float64(i) / float64(frames)
		frame := viewer.Render(view)
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}

	w, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save rotating gif")
	}
	defer w.Close()
	if err := gif.EncodeAll(w, anim); err != nil {
		return errors.Wrap(err, "save rotating gif")
	}
	return errors.Wrap(w.Close(), "save rotating gif")
}
