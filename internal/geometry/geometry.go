package geometry

import (
	"fmt"
	"math"

	"sofictl/internal/stages"
)

// Source is one excitation point. X and Z are meters from the model origin;
// Delay, CenterFreq, and Amplitude describe the wavelet.
type Source struct {
	X          float64
	Z          float64
	Delay      float64
	CenterFreq float64
	Amplitude  float64
	Azimuth    float64
	Type       int
}

// Receiver is one recording position in meters.
type Receiver struct {
	X float64
	Z float64
}

// Bounds is the physical extent of the model, [0, Width] by [0, Depth].
type Bounds struct {
	Width float64
	Depth float64
}

// GridBounds derives physical bounds from grid dimensions and spacing.
func GridBounds(nx, nz int, dh float64) Bounds {
	return Bounds{Width: float64(nx-1) * dh, Depth: float64(nz-1) * dh}
}

func (b Bounds) contains(x, z float64) bool {
	return x >= 0 && x <= b.Width && z >= 0 && z <= b.Depth
}

func coordErr(kind string, index int, msg string) error {
	return stages.Wrap(stages.ErrFormat, stages.StageGeometry, "validate",
		fmt.Sprintf("%s %d: %s", kind, index, msg), nil)
}

// ValidateSources rejects non-finite or out-of-bounds source coordinates.
// The returned error names the first offending entry.
func ValidateSources(srcs []Source, b Bounds) error {
	if len(srcs) == 0 {
		return stages.Wrap(stages.ErrFormat, stages.StageGeometry, "validate", "no sources defined", nil)
	}
	for i, s := range srcs {
		if !isFinite(s.X) || !isFinite(s.Z) {
			return coordErr("source", i, fmt.Sprintf("non-finite coordinate (%v, %v)", s.X, s.Z))
		}
		if !b.contains(s.X, s.Z) {
			return coordErr("source", i,
				fmt.Sprintf("(%g, %g) outside model bounds %gx%g", s.X, s.Z, b.Width, b.Depth))
		}
	}
	return nil
}

// ValidateReceivers rejects non-finite or out-of-bounds receiver coordinates.
func ValidateReceivers(recs []Receiver, b Bounds) error {
	if len(recs) == 0 {
		return stages.Wrap(stages.ErrFormat, stages.StageGeometry, "validate", "no receivers defined", nil)
	}
	for i, r := range recs {
		if !isFinite(r.X) || !isFinite(r.Z) {
			return coordErr("receiver", i, fmt.Sprintf("non-finite coordinate (%v, %v)", r.X, r.Z))
		}
		if !b.contains(r.X, r.Z) {
			return coordErr("receiver", i,
				fmt.Sprintf("(%g, %g) outside model bounds %gx%g", r.X, r.Z, b.Width, b.Depth))
		}
	}
	return nil
}

// Line places n receivers evenly between (x1, z1) and (x2, z2) inclusive,
// in order. A single receiver sits at the start point.
func Line(x1, z1, x2, z2 float64, n int) []Receiver {
	if n < 1 {
		return nil
	}
	recs := make([]Receiver, n)
	if n == 1 {
		recs[0] = Receiver{X: x1, Z: z1}
		return recs
	}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		recs[i] = Receiver{X: x1 + t*(x2-x1), Z: z1 + t*(z2-z1)}
	}
	return recs
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
