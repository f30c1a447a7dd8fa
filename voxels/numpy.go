package voxels

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"
)

// SaveNumpy writes a grid to an .npz archive holding a
// single float32 array named voxels.
func SaveNumpy(path string, g *Grid) error {
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save numpy")
	}
	defer w.Close()
	zipWriter := zip.NewWriter(w)
	fileWriter, err := zipWriter.Create("voxels.npy")
	if err != nil {
		return errors.Wrap(err, "save numpy")
	}
	if _, err := fileWriter.Write(EncodeNumpy(g)); err != nil {
		return errors.Wrap(err, "save numpy")
	}
	if err := zipWriter.Close(); err != nil {
		return errors.Wrap(err, "save numpy")
	}
	return w.Close()
}

// EncodeNumpy encodes a grid as a .npy file with shape
// (z, y, x).
func EncodeNumpy(g *Grid) []byte {
	header := "\x93NUMPY\x01\x00\x76\x00{'descr': '<f4', 'fortran_order': False, 'shape': ("
	header += fmt.Sprintf("%d, %d, %d), }", g.Size, g.Size, g.Size)
	for len(header) < 0x80-1 {
		header += " "
	}
	header += "\n"

	values := g.Values()
	data := make([]byte, len(header), len(header)+4*len(values))
	copy(data, header)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(v)))
	}
	return data
}
