package model

import (
	"fmt"
	"math"

	"sofictl/internal/stages"
)

// Resample reprojects the grid onto a uniform spacing dh via bilinear
// interpolation. Target nodes sit at integer multiples of dh; the new
// dimension along each axis is round(extent/dh)+1. Nodes falling outside the
// source extent clip to the nearest edge sample. Resampling a grid to its
// own spacing returns the grid unchanged.
func (g *Grid) Resample(dh float64) (*Grid, error) {
	if dh <= 0 {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageModel, "resample",
			fmt.Sprintf("target spacing must be positive, got %g", dh), nil)
	}
	if g.DX <= 0 || g.DZ <= 0 {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageModel, "resample",
			fmt.Sprintf("source spacing must be positive, got dx=%g dz=%g", g.DX, g.DZ), nil)
	}
	if g.DX == dh && g.DZ == dh {
		return g, nil
	}

	xMax := float64(g.NX-1) * g.DX
	zMax := float64(g.NZ-1) * g.DZ
	nxNew := int(math.Round(xMax/dh)) + 1
	nzNew := int(math.Round(zMax/dh)) + 1

	out := &Grid{NX: nxNew, NZ: nzNew, DX: dh, DZ: dh, Data: make([]float32, nxNew*nzNew)}
	for ix := 0; ix < nxNew; ix++ {
		x := clamp(float64(ix)*dh, 0, xMax)
		for iz := 0; iz < nzNew; iz++ {
			z := clamp(float64(iz)*dh, 0, zMax)
			out.Data[ix*nzNew+iz] = g.bilinear(x, z)
		}
	}
	return out, nil
}

func (g *Grid) bilinear(x, z float64) float32 {
	fx := x / g.DX
	fz := z / g.DZ

	i0 := int(math.Floor(fx))
	k0 := int(math.Floor(fz))
	if i0 > g.NX-2 {
		i0 = g.NX - 2
	}
	if i0 < 0 {
		i0 = 0
	}
	if k0 > g.NZ-2 {
		k0 = g.NZ - 2
	}
	if k0 < 0 {
		k0 = 0
	}
	i1, k1 := i0+1, k0+1
	if g.NX == 1 {
		i0, i1 = 0, 0
	}
	if g.NZ == 1 {
		k0, k1 = 0, 0
	}

	tx := clamp(fx-float64(i0), 0, 1)
	tz := clamp(fz-float64(k0), 0, 1)

	v00 := float64(g.At(i0, k0))
	v10 := float64(g.At(i1, k0))
	v01 := float64(g.At(i0, k1))
	v11 := float64(g.At(i1, k1))

	top := v00*(1-tx) + v10*tx
	bottom := v01*(1-tx) + v11*tx
	return float32(top*(1-tz) + bottom*tz)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Padding records how many samples PadToMultiple added on each side.
type Padding struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// PadToMultiple grows the grid so both dimensions are multiples of m. The
// original samples stay centered and new samples replicate the nearest edge,
// matching the absorbing-boundary convention of extending the model outward.
func (g *Grid) PadToMultiple(m int) (*Grid, Padding, error) {
	if m < 1 {
		return nil, Padding{}, stages.Wrap(stages.ErrFormat, stages.StageModel, "pad",
			fmt.Sprintf("multiple must be at least 1, got %d", m), nil)
	}

	nxPad := ((g.NX + m - 1) / m) * m
	nzPad := ((g.NZ + m - 1) / m) * m
	pad := Padding{}
	pad.Left = (nxPad - g.NX) / 2
	pad.Right = nxPad - g.NX - pad.Left
	pad.Top = (nzPad - g.NZ) / 2
	pad.Bottom = nzPad - g.NZ - pad.Top

	if nxPad == g.NX && nzPad == g.NZ {
		return g, pad, nil
	}

	out := &Grid{NX: nxPad, NZ: nzPad, DX: g.DX, DZ: g.DZ, Data: make([]float32, nxPad*nzPad)}
	for ix := 0; ix < nxPad; ix++ {
		srcX := clampInt(ix-pad.Left, 0, g.NX-1)
		for iz := 0; iz < nzPad; iz++ {
			srcZ := clampInt(iz-pad.Top, 0, g.NZ-1)
			out.Data[ix*nzPad+iz] = g.At(srcX, srcZ)
		}
	}
	return out, pad, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
