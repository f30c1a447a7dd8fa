// Package dataset reads the files of a ShapeNet-style
// dataset, where each model lives under
// <root>/<folder>/<model>/models.
package dataset

import "path/filepath"

const (
	MeshFile   = "model_normalized.obj"
	ResultFile = "result.csv"
)

// ModelDir gets the directory containing a model's files.
func ModelDir(root, folder, model string) string {
	return filepath.Join(root, folder, model, "models")
}

// MeshPath gets the path of a model's normalized mesh.
func MeshPath(root, folder, model string) string {
	return filepath.Join(ModelDir(root, folder, model), MeshFile)
}

// ResultPath gets the path of a model's sampled SDF table.
func ResultPath(root, folder, model string) string {
	return filepath.Join(ModelDir(root, folder, model), ResultFile)
}
