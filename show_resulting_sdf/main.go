// Command show_resulting_sdf shows the sampled SDF points
// of a dataset model, colored by sign.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/sdf-preview/dataset"
	"github.com/unixpickle/sdf-preview/preview"
)

func main() {
	var dataDir string
	var folder string
	var model string
	var threshold float64
	var noFilter bool
	var pointSize float64
	var addr string
	var imageSize int
	var snapshotPath string

	flag.StringVar(&dataDir, "data", "data", "dataset root directory")
	flag.StringVar(&folder, "folder", "02818832", "dataset folder (category) ID")
	flag.StringVar(&model, "model", "10c15151ebe3d237240ea0cdca7b391a", "model ID")
	flag.Float64Var(&threshold, "threshold", dataset.DefaultThreshold, "only show points with sdf above this value")
	flag.BoolVar(&noFilter, "no-filter", false, "show every point, including inside points")
	flag.Float64Var(&pointSize, "point-size", 2, "size of each point")
	flag.StringVar(&addr, "addr", "localhost:8080", "address for the viewer")
	flag.IntVar(&imageSize, "image-size", preview.DefaultImageSize, "size of rendered images")
	flag.StringVar(&snapshotPath, "snapshot", "", "render to this png or gif instead of opening a viewer")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if len(flag.Args()) != 0 {
		flag.Usage()
	}

	resultPath := dataset.ResultPath(dataDir, folder, model)
	log.Println("Loading", resultPath, "...")
	points, err := dataset.LoadPointSDFs(resultPath)
	essentials.Must(err)
	log.Println("Loaded", dataset.Summarize(points))

	if !noFilter {
		points = dataset.FilterSDF(points, threshold)
		log.Printf("Kept %d points with sdf > %g", len(points), threshold)
	}

	colored := preview.ColorPoints(points)
	obj, err := preview.PointCloudObject(colored, preview.PointRadius(colored, pointSize))
	essentials.Must(err)

	if snapshotPath != "" {
		log.Println("Rendering", snapshotPath, "...")
		essentials.Must(preview.SaveSnapshot(snapshotPath, obj, imageSize))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	viewer := preview.NewViewer(obj, imageSize)
	essentials.Must(viewer.Serve(ctx, addr, folder+"/"+model+" sdf"))
}
