// Command show_3d_model converts a dataset mesh into a
// signed distance voxel grid, extracts the surface again
// with marching cubes, and shows the result.
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
	"github.com/unixpickle/sdf-preview/voxels"
)

func main() {
	defaults := voxels.DefaultVoxelizeOptions()

	var dataDir string
	var folder string
	var model string
	var resolution int
	var pad bool
	var signName string
	var addr string
	var imageSize int
	var snapshotPath string
	var stlPath string
	var gridPath string

	flag.StringVar(&dataDir, "data", "data", "dataset root directory")
	flag.StringVar(&folder, "folder", "02818832", "dataset folder (category) ID")
	flag.StringVar(&model, "model", "10c15151ebe3d237240ea0cdca7b391a", "model ID")
	flag.IntVar(&resolution, "resolution", defaults.Resolution, "number of voxels along each dimension")
	flag.BoolVar(&pad, "pad", defaults.Pad, "surround the grid with a layer of outside voxels")
	flag.StringVar(&signName, "sign", string(defaults.Sign), "inside test: rays, sdf, or flood")
	flag.StringVar(&addr, "addr", "localhost:8080", "address for the viewer")
	flag.IntVar(&imageSize, "image-size", preview.DefaultImageSize, "size of rendered images")
	flag.StringVar(&snapshotPath, "snapshot", "", "render to this png or gif instead of opening a viewer")
	flag.StringVar(&stlPath, "stl", "", "optional path to save the extracted mesh")
	flag.StringVar(&gridPath, "grid", "", "optional path to save the voxel grid as JSON")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if len(flag.Args()) != 0 {
		flag.Usage()
	}

	sign, err := voxels.ParseSignMethod(signName)
	essentials.Must(err)

	meshPath := dataset.MeshPath(dataDir, folder, model)
	log.Println("Loading", meshPath, "...")
	mesh, err := dataset.LoadOBJ(meshPath)
	essentials.Must(err)

	log.Println("Voxelizing", len(mesh.TriangleSlice()), "triangles ...")
	grid, err := voxels.Voxelize(mesh, voxels.VoxelizeOptions{
		Resolution: resolution,
		Pad:        pad,
		Sign:       sign,
	})
	essentials.Must(err)
	if gridPath != "" {
		log.Println("Saving grid to", gridPath, "...")
		essentials.Must(saveGrid(gridPath, grid))
	}

	log.Println("Extracting surface ...")
	surface := voxels.Isosurface(grid, 0)
	if len(surface.Faces) == 0 {
		essentials.Die("extracted surface is empty")
	}
	log.Printf("Surface has %d vertices and %d faces", len(surface.Vertices), len(surface.Faces))
	result := surface.Mesh()
	if stlPath != "" {
		log.Println("Saving mesh to", stlPath, "...")
		essentials.Must(result.SaveGroupedSTL(stlPath))
	}

	obj := preview.MeshObject(result)
	if snapshotPath != "" {
		log.Println("Rendering", snapshotPath, "...")
		essentials.Must(preview.SaveSnapshot(snapshotPath, obj, imageSize))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	viewer := preview.NewViewer(obj, imageSize)
	essentials.Must(viewer.Serve(ctx, addr, folder+"/"+model))
}

func saveGrid(path string, grid *voxels.Grid) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := grid.Write(w); err != nil {
		return err
	}
	return w.Close()
}
