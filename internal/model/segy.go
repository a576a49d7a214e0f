package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"sofictl/internal/stages"
)

// SEG-Y layout constants. Offsets are zero-based into the 400-byte binary
// file header that follows the 3200-byte textual header.
const (
	segyTextHeaderLen   = 3200
	segyBinaryHeaderLen = 400
	segyTraceHeaderLen  = 240

	segySampleIntervalOff = 16 // bytes 3217-3218, microseconds
	segySamplesOff        = 20 // bytes 3221-3222
	segyFormatOff         = 24 // bytes 3225-3226

	segyFormatIBM  = 1
	segyFormatIEEE = 5
)

func segyErr(op, msg string, err error) error {
	return stages.Wrap(stages.ErrFormat, stages.StageModel, op, msg, err)
}

// ReadSEGY reads a 2D model stored as a SEG-Y line: each trace is one column
// of depth samples. Supported sample formats are 1 (IBM float) and 5 (IEEE
// float32), both 4 bytes, big-endian. The vertical spacing is taken from the
// sample interval header when present (interpreted in meters via the
// microsecond field); horizontal spacing must be set by the caller.
func ReadSEGY(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, segyErr("open", path, err)
	}
	defer file.Close()
	return readSEGY(bufio.NewReader(file), path)
}

func readSEGY(r io.Reader, path string) (*Grid, error) {
	header := make([]byte, segyTextHeaderLen+segyBinaryHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, segyErr("read", fmt.Sprintf("%s: truncated file header", path), err)
	}
	binHeader := header[segyTextHeaderLen:]

	ns := int(binary.BigEndian.Uint16(binHeader[segySamplesOff:]))
	format := int(binary.BigEndian.Uint16(binHeader[segyFormatOff:]))
	interval := int(binary.BigEndian.Uint16(binHeader[segySampleIntervalOff:]))

	if ns < 1 {
		return nil, segyErr("read", fmt.Sprintf("%s: header declares %d samples per trace", path, ns), nil)
	}
	if format != segyFormatIBM && format != segyFormatIEEE {
		return nil, segyErr("read", fmt.Sprintf("%s: unsupported sample format code %d", path, format), nil)
	}

	var columns [][]float32
	traceHeader := make([]byte, segyTraceHeaderLen)
	samples := make([]byte, 4*ns)
	for {
		if _, err := io.ReadFull(r, traceHeader); err != nil {
			if err == io.EOF {
				break
			}
			return nil, segyErr("read", fmt.Sprintf("%s: truncated trace header after %d traces", path, len(columns)), err)
		}
		traceNS := int(binary.BigEndian.Uint16(traceHeader[114:]))
		if traceNS != 0 && traceNS != ns {
			return nil, segyErr("read",
				fmt.Sprintf("%s: trace %d has %d samples, file header declares %d", path, len(columns), traceNS, ns), nil)
		}
		if _, err := io.ReadFull(r, samples); err != nil {
			return nil, segyErr("read", fmt.Sprintf("%s: truncated trace %d", path, len(columns)), err)
		}

		column := make([]float32, ns)
		for i := range column {
			raw := binary.BigEndian.Uint32(samples[4*i:])
			if format == segyFormatIBM {
				column[i] = ibmToFloat32(raw)
			} else {
				column[i] = math.Float32frombits(raw)
			}
		}
		columns = append(columns, column)
	}

	if len(columns) == 0 {
		return nil, segyErr("read", fmt.Sprintf("%s: no traces", path), nil)
	}

	grid := &Grid{NX: len(columns), NZ: ns, Data: make([]float32, len(columns)*ns)}
	for ix, column := range columns {
		copy(grid.Data[ix*ns:], column)
	}
	if interval > 0 {
		grid.DZ = float64(interval)
	}
	return grid, nil
}

// ibmToFloat32 converts an IBM System/360 hexadecimal float to IEEE 754.
func ibmToFloat32(raw uint32) float32 {
	if raw == 0 {
		return 0
	}
	sign := 1.0
	if raw&0x80000000 != 0 {
		sign = -1.0
	}
	exponent := int((raw>>24)&0x7f) - 64
	mantissa := float64(raw&0x00ffffff) / float64(1<<24)
	return float32(sign * mantissa * math.Pow(16, float64(exponent)))
}
