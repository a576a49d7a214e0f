package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTestSEGY(t *testing.T, path string, ntraces, ns int, value float32) {
	t.Helper()

	buf := make([]byte, 3200+400)
	binary.BigEndian.PutUint16(buf[3200+20:], uint16(ns))
	binary.BigEndian.PutUint16(buf[3200+24:], 5) // IEEE float

	for tr := 0; tr < ntraces; tr++ {
		header := make([]byte, 240)
		binary.BigEndian.PutUint16(header[114:], uint16(ns))
		buf = append(buf, header...)
		for s := 0; s < ns; s++ {
			var sample [4]byte
			binary.BigEndian.PutUint32(sample[:], math.Float32bits(value))
			buf = append(buf, sample[:]...)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write test SEG-Y: %v", err)
	}
}

func TestModelInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.sgy")
	writeTestSEGY(t, path, 8, 12, 2500)

	out, _, err := runCLI(t, []string{"model", "info", path})
	if err != nil {
		t.Fatalf("model info: %v", err)
	}
	requireContains(t, out, "8")
	requireContains(t, out, "12")
	requireContains(t, out, "2500.0 m/s")
}

func TestModelPrepare(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "line.sgy")
	writeTestSEGY(t, path, 10, 10, 3000)

	outDir := filepath.Join(tmp, "out")
	out, _, err := runCLI(t, []string{
		"--config", writeTestConfig(t),
		"model", "prepare", path,
		"--dx", "10", "--dz", "10",
		"--out-dir", outDir,
	})
	if err != nil {
		t.Fatalf("model prepare: %v", err)
	}
	requireContains(t, out, "Wrote")

	for _, name := range []string{"model.vp", "model.rho", "model.vs"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		// Padded to the configured multiple of 16: 16x16 float32 samples.
		if info.Size() != 16*16*4 {
			t.Fatalf("%s size = %d, want %d", name, info.Size(), 16*16*4)
		}
	}
}
