package main

import (
	"fmt"
	"strconv"
	"strings"

	"sofictl/internal/geometry"
)

// parseFloats splits a comma-separated flag value into exactly n numbers.
func parseFloats(value string, n int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", n, value)
	}
	out := make([]float64, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseSources converts repeated "x,z" flag values into source positions with
// the shared wavelet settings applied.
func parseSources(values []string, freq, amplitude float64, srcType int) ([]geometry.Source, error) {
	srcs := make([]geometry.Source, 0, len(values))
	for _, value := range values {
		coords, err := parseFloats(value, 2)
		if err != nil {
			return nil, fmt.Errorf("source position: %w", err)
		}
		srcs = append(srcs, geometry.Source{
			X:          coords[0],
			Z:          coords[1],
			CenterFreq: freq,
			Amplitude:  amplitude,
			Type:       srcType,
		})
	}
	return srcs, nil
}

// parseReceiverLine expands an "x1,z1,x2,z2" flag value into n receivers.
func parseReceiverLine(value string, n int) ([]geometry.Receiver, error) {
	coords, err := parseFloats(value, 4)
	if err != nil {
		return nil, fmt.Errorf("receiver line: %w", err)
	}
	if n < 1 {
		return nil, fmt.Errorf("receiver line needs a positive count, got %d", n)
	}
	return geometry.Line(coords[0], coords[1], coords[2], coords[3], n), nil
}
