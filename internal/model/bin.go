package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"sofictl/internal/stages"
)

// WriteBin serializes the grid in the simulator's raw model convention:
// float32, little-endian, row-major with x as the slow axis, no header.
func (g *Grid) WriteBin(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return stages.Wrap(stages.ErrFormat, stages.StageModel, "write", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	var scratch [4]byte
	for _, v := range g.Data {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
		if _, err := w.Write(scratch[:]); err != nil {
			return stages.Wrap(stages.ErrFormat, stages.StageModel, "write", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return stages.Wrap(stages.ErrFormat, stages.StageModel, "write", path, err)
	}
	return file.Close()
}

// ReadBin reads a raw model file with the declared dimensions. The file size
// must be exactly nx*nz*4 bytes; anything else is a layout mismatch and
// fails loudly.
func ReadBin(path string, nx, nz int, dx, dz float64) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageModel, "read", path, err)
	}
	want := nx * nz * 4
	if len(data) != want {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageModel, "read",
			fmt.Sprintf("%s: got %d bytes, want %d for %dx%d float32 grid", path, len(data), want, nx, nz), nil)
	}

	grid := &Grid{NX: nx, NZ: nz, DX: dx, DZ: dz, Data: make([]float32, nx*nz)}
	for i := range grid.Data {
		grid.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return grid, nil
}
