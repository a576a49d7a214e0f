package model

import (
	"fmt"
	"math"

	"sofictl/internal/stages"
)

// Grid is a 2D physical property field sampled on a regular grid.
//
// Layout follows the seismic trace convention: NX columns of NZ depth
// samples, stored row-major with x as the slow axis. Index (0, 0) is the
// top-left corner; x grows to the right, z grows downward.
type Grid struct {
	NX   int
	NZ   int
	DX   float64
	DZ   float64
	Data []float32
}

// New allocates a zero-valued grid.
func New(nx, nz int, dx, dz float64) (*Grid, error) {
	if nx < 1 || nz < 1 {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageModel, "new",
			fmt.Sprintf("grid dimensions must be positive, got %dx%d", nx, nz), nil)
	}
	return &Grid{NX: nx, NZ: nz, DX: dx, DZ: dz, Data: make([]float32, nx*nz)}, nil
}

// NewConstant builds a homogeneous model, e.g. a constant velocity field.
func NewConstant(nx, nz int, dx, dz float64, value float32) (*Grid, error) {
	g, err := New(nx, nz, dx, dz)
	if err != nil {
		return nil, err
	}
	for i := range g.Data {
		g.Data[i] = value
	}
	return g, nil
}

// At returns the value at column ix, depth sample iz.
func (g *Grid) At(ix, iz int) float32 {
	return g.Data[ix*g.NZ+iz]
}

// SetAt stores a value at column ix, depth sample iz.
func (g *Grid) SetAt(ix, iz int, v float32) {
	g.Data[ix*g.NZ+iz] = v
}

// Extent returns the physical size of the grid in meters.
func (g *Grid) Extent() (width, depth float64) {
	return float64(g.NX-1) * g.DX, float64(g.NZ-1) * g.DZ
}

// Stats summarizes a grid for display.
type Stats struct {
	Min  float64
	Max  float64
	Mean float64
}

// Stats computes min, max, and mean over all samples.
func (g *Grid) Stats() Stats {
	if len(g.Data) == 0 {
		return Stats{}
	}
	min := math.Inf(1)
	max := math.Inf(-1)
	sum := 0.0
	for _, v := range g.Data {
		f := float64(v)
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
		sum += f
	}
	return Stats{Min: min, Max: max, Mean: sum / float64(len(g.Data))}
}
