// Command export_voxels exports every model in a dataset
// as a signed distance voxel grid.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/sdf-preview/dataset"
	"github.com/unixpickle/sdf-preview/voxels"
)

func main() {
	defaults := voxels.DefaultVoxelizeOptions()

	var numVariations int
	var gridSize int
	var pad bool
	var signName string
	var seed uint64

	flag.IntVar(&numVariations, "variations", 1, "number of random rotations to produce")
	flag.IntVar(&gridSize, "grid-size", defaults.Resolution, "number of voxels along each dimension")
	flag.BoolVar(&pad, "pad", defaults.Pad, "surround each grid with a layer of outside voxels")
	flag.Uint64Var(&seed, "seed", 0, "random seed for rotations")
	flag.StringVar(&signName, "sign", string(defaults.Sign), "inside test: rays, sdf, or flood")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <data_dir> <output_dir>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if len(flag.Args()) != 2 {
		flag.Usage()
	}

	sign, err := voxels.ParseSignMethod(signName)
	essentials.Must(err)
	opts := voxels.VoxelizeOptions{Resolution: gridSize, Pad: pad, Sign: sign}

	rng := rand.New(rand.NewPCG(seed, seed))

	inDir := flag.Args()[0]
	outDir := flag.Args()[1]

	err = filepath.Walk(inDir, func(inPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inDir, inPath)
		essentials.Must(err)
		outPath := filepath.Join(outDir, relPath)

		if info.IsDir() {
			return os.MkdirAll(outPath, 0755)
		}

		if info.Name() == dataset.MeshFile {
			return ConvertModel(inPath, outPath, numVariations, opts, rng)
		}
		return nil
	})
	essentials.Must(err)
}

func ConvertModel(inPath, outPath string, numVariations int, opts voxels.VoxelizeOptions,
	rng *rand.Rand) error {
	log.Println("Converting", inPath, "...")

	mesh, err := dataset.LoadOBJ(inPath)
	if err != nil {
		return err
	}

	outBase := outPath[:len(outPath)-len(filepath.Ext(outPath))]
	for i := 0; i < numVariations; i++ {
		outPath := fmt.Sprintf("%s-%d.npz", outBase, i)
		saveMesh := mesh
		if i != 0 {
			saveMesh = voxels.RandomRotation(saveMesh, rng)
		}
		grid, err := voxels.Voxelize(saveMesh, opts)
		if err != nil {
			return err
		}
		if err := voxels.SaveNumpy(outPath, grid); err != nil {
			return err
		}
	}

	return nil
}
