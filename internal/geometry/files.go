package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sofictl/internal/stages"
)

// WriteSources writes the simulator's source.dat rows in the order given:
//
//	XSRC  ZSRC  TD  FC  AMP  SOURCE_AZIMUTH  SOURCE_TYPE
//
// Columns are fixed width, space separated, with no blank lines. The source
// type column is written as a float to match the simulator's reader.
func WriteSources(w io.Writer, srcs []Source) error {
	bw := bufio.NewWriter(w)
	for _, s := range srcs {
		_, err := fmt.Fprintf(bw, "%10.2f %10.2f %10.2f %10.2f %10.2f %10.2f %10.2f\n",
			s.X, s.Z, s.Delay, s.CenterFreq, s.Amplitude, s.Azimuth, float64(s.Type))
		if err != nil {
			return fmt.Errorf("write source row: %w", err)
		}
	}
	return bw.Flush()
}

// WriteReceivers writes receiver.dat rows "x z" in the order given. Row
// order is significant: it fixes the receiver-to-trace correspondence in the
// simulator's output.
func WriteReceivers(w io.Writer, recs []Receiver) error {
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		if _, err := fmt.Fprintf(bw, "%.6f %.6f\n", r.X, r.Z); err != nil {
			return fmt.Errorf("write receiver row: %w", err)
		}
	}
	return bw.Flush()
}

// WriteSourcesFile validates and writes source.dat at path.
func WriteSourcesFile(path string, srcs []Source, b Bounds) error {
	if err := ValidateSources(srcs, b); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error { return WriteSources(w, srcs) })
}

// WriteReceiversFile validates and writes receiver.dat at path.
func WriteReceiversFile(path string, recs []Receiver, b Bounds) error {
	if err := ValidateReceivers(recs, b); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error { return WriteReceivers(w, recs) })
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return stages.Wrap(stages.ErrFormat, stages.StageGeometry, "write", path, err)
	}
	defer file.Close()
	if err := write(file); err != nil {
		return stages.Wrap(stages.ErrFormat, stages.StageGeometry, "write", path, err)
	}
	return file.Close()
}

// ReadReceivers parses a receiver.dat stream back into coordinates,
// preserving row order. Every non-empty row needs at least two columns.
func ReadReceivers(r io.Reader) ([]Receiver, error) {
	var recs []Receiver
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, stages.Wrap(stages.ErrFormat, stages.StageGeometry, "read",
				fmt.Sprintf("row %d: expected at least two columns (x z), got %d", line, len(fields)), nil)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, stages.Wrap(stages.ErrFormat, stages.StageGeometry, "read",
				fmt.Sprintf("row %d: bad x coordinate %q", line, fields[0]), err)
		}
		z, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, stages.Wrap(stages.ErrFormat, stages.StageGeometry, "read",
				fmt.Sprintf("row %d: bad z coordinate %q", line, fields[1]), err)
		}
		recs = append(recs, Receiver{X: x, Z: z})
	}
	if err := scanner.Err(); err != nil {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageGeometry, "read", "", err)
	}
	return recs, nil
}

// ReadReceiversFile parses receiver.dat at path.
func ReadReceiversFile(path string) ([]Receiver, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, stages.Wrap(stages.ErrFormat, stages.StageGeometry, "read", path, err)
	}
	defer file.Close()
	return ReadReceivers(file)
}
