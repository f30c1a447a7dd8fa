// Command sample_sdf samples labeled points near the
// surface of a dataset mesh and saves them as the model's
// result.csv.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/sdf-preview/dataset"
	"github.com/unixpickle/sdf-preview/voxels"
)

func main() {
	defaults := voxels.DefaultSampleOptions()

	var dataDir string
	var folder string
	var model string
	var numPoints int
	var uniformFraction float64
	var signName string
	var seed uint64
	var outputPath string

	flag.StringVar(&dataDir, "data", "data", "dataset root directory")
	flag.StringVar(&folder, "folder", "02818832", "dataset folder (category) ID")
	flag.StringVar(&model, "model", "10c15151ebe3d237240ea0cdca7b391a", "model ID")
	flag.IntVar(&numPoints, "points", defaults.NumPoints, "number of points to sample")
	flag.Float64Var(&uniformFraction, "uniform", defaults.UniformFraction,
		"fraction of points sampled uniformly in the bounding cube")
	flag.StringVar(&signName, "sign", string(defaults.Sign), "inside test: rays or sdf")
	flag.Uint64Var(&seed, "seed", 0, "random seed")
	flag.StringVar(&outputPath, "output", "", "output CSV (default: the model's result.csv)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if len(flag.Args()) != 0 {
		flag.Usage()
	}
	if outputPath == "" {
		outputPath = dataset.ResultPath(dataDir, folder, model)
	}

	sign, err := voxels.ParseSignMethod(signName)
	essentials.Must(err)

	meshPath := dataset.MeshPath(dataDir, folder, model)
	log.Println("Loading", meshPath, "...")
	mesh, err := dataset.LoadOBJ(meshPath)
	essentials.Must(err)

	log.Println("Sampling", numPoints, "points ...")
	rng := rand.New(rand.NewPCG(seed, seed))
	points, err := voxels.SampleNearSurface(mesh, voxels.SampleOptions{
		NumPoints:       numPoints,
		Sign:            sign,
		UniformFraction: uniformFraction,
	}, rng)
	essentials.Must(err)
	log.Println("Sampled", dataset.Summarize(points))

	log.Println("Saving", outputPath, "...")
	essentials.Must(dataset.SavePointSDFs(outputPath, points))
}
