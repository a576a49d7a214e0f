// Package output reads SOFI2D result files back into memory. Shapes and
// ordering follow the simulator's own binary conventions: raw float32,
// little-endian, one trace per receiver in receiver-file order.
package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"sofictl/internal/stages"
)

// Seismogram holds recorded traces, one per receiver, in the order the
// receivers were written. Trace r, sample t is Data[r*NT+t].
type Seismogram struct {
	NRec int
	NT   int
	DT   float64
	Data []float32
}

// Trace returns receiver r's samples.
func (s *Seismogram) Trace(r int) []float32 {
	return s.Data[r*s.NT : (r+1)*s.NT]
}

// Normalize scales every trace by its own peak amplitude. Dead traces are
// left untouched.
func (s *Seismogram) Normalize() {
	for r := 0; r < s.NRec; r++ {
		trace := s.Trace(r)
		peak := float32(0)
		for _, v := range trace {
			if a := float32(math.Abs(float64(v))); a > peak {
				peak = a
			}
		}
		if peak == 0 {
			continue
		}
		for i := range trace {
			trace[i] /= peak
		}
	}
}

func parseErr(op, msg string, err error) error {
	return stages.Wrap(stages.ErrOutputParse, stages.StageCollect, op, msg, err)
}

// ReadSeismogram reads a raw float32 trace file produced by the simulator
// and reshapes it to nrec traces. A file size not divisible by nrec is an
// output-parse error.
func ReadSeismogram(path string, nrec int, dt float64) (*Seismogram, error) {
	if nrec < 1 {
		return nil, parseErr("read", fmt.Sprintf("receiver count must be positive, got %d", nrec), nil)
	}
	samples, err := readFloats(path)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, parseErr("read", fmt.Sprintf("%s: empty seismogram", path), nil)
	}
	if len(samples)%nrec != 0 {
		return nil, parseErr("read",
			fmt.Sprintf("%s: %d samples not divisible by %d receivers", path, len(samples), nrec), nil)
	}
	return &Seismogram{NRec: nrec, NT: len(samples) / nrec, DT: dt, Data: samples}, nil
}

// Snapshot holds wavefield frames of nx-by-nz samples each.
type Snapshot struct {
	NX     int
	NZ     int
	Frames [][]float32
}

// ReadSnapshot reads a raw float32 snapshot file holding one or more frames
// of the declared grid shape.
func ReadSnapshot(path string, nx, nz int) (*Snapshot, error) {
	if nx < 1 || nz < 1 {
		return nil, parseErr("read", fmt.Sprintf("frame shape must be positive, got %dx%d", nx, nz), nil)
	}
	samples, err := readFloats(path)
	if err != nil {
		return nil, err
	}
	frameLen := nx * nz
	if len(samples) == 0 || len(samples)%frameLen != 0 {
		return nil, parseErr("read",
			fmt.Sprintf("%s: %d samples does not hold whole %dx%d frames", path, len(samples), nx, nz), nil)
	}
	snap := &Snapshot{NX: nx, NZ: nz}
	for off := 0; off < len(samples); off += frameLen {
		snap.Frames = append(snap.Frames, samples[off:off+frameLen])
	}
	return snap, nil
}

func readFloats(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parseErr("open", path, err)
	}
	if len(data)%4 != 0 {
		return nil, parseErr("read", fmt.Sprintf("%s: %d bytes is not a float32 array", path, len(data)), nil)
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return samples, nil
}
