// Command grid_to_stl converts a JSON-encoded signed
// distance grid into a triangle mesh and saves it as an
// STL file.
//
// The JSON input is read from stdin and decoded as a 3D
// array with z on the outer dimension, then y, then x.
// The array should be NxNxN, i.e. a perfect cube.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/sdf-preview/voxels"
)

func main() {
	var level float64
	var outputPath string
	flag.Float64Var(&level, "level", 0, "isosurface level; smaller values are inside")
	flag.StringVar(&outputPath, "output", "output.stl", "output STL file")
	flag.Parse()

	grid, err := voxels.ReadGrid(os.Stdin)
	essentials.Must(err)

	surface := voxels.Isosurface(grid, level)
	log.Printf("Saving %d faces to %s ...", len(surface.Faces), outputPath)
	essentials.Must(surface.Mesh().SaveGroupedSTL(outputPath))
}
