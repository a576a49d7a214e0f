package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// commentValue marks descriptive entries. SOFI2D skips any parameter whose
// value is the literal string "comment".
const commentValue = "comment"

type entry struct {
	key   string
	value string
}

func comment(text string) entry { return entry{key: text, value: commentValue} }

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ftoa6 matches the simulator's fixed six-decimal snapshot timing fields.
func ftoa6(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func (s *Set) entries() []entry {
	return []entry{
		comment("Domain Decomposition"),
		{"NPROCX", itoa(s.Domain.NProcX)},
		{"NPROCY", itoa(s.Domain.NProcY)},

		comment("FD order"),
		{"FDORDER", itoa(s.FD.Order)},
		{"FDORDER_TIME", itoa(s.FD.TimeOrder)},
		{"MAXRELERROR", ftoa(s.FD.MaxRelError)},

		comment("2-D Grid"),
		{"NX", itoa(s.Grid.NX)},
		{"NY", itoa(s.Grid.NY)},
		{"DH", ftoa(s.Grid.DH)},

		comment("Time Stepping"),
		{"TIME", ftoa(s.Time.Time)},
		{"DT", ftoa(s.Time.DT)},

		comment("Wave Equation"),
		{"WEQ", s.WEQ},
		comment("WEQ values: AC_ISO, AC_VTI, AC_TTI"),
		comment("WEQ values: VAC_ISO, VAC_VTI, VAC_TTI"),
		comment("WEQ values: EL_ISO, EL_VTI, EL_TTI"),
		comment("WEQ values: VEL_ISO, VEL_VTI, VEL_TTI"),

		comment("Source"),
		{"SOURCE_SHAPE", itoa(s.Source.Shape)},
		comment("SOURCE_SHAPE values: ricker=1, fumue=2, file=3, sin3=4, berlage=5, klauder=6"),
		{"SIGNAL_FILE", s.Source.SignalFile},
		{"SOURCE_TYPE", itoa(s.Source.Type)},
		comment("SOURCE_TYPE values: explosive=1, fx=2, fy=3, custom=4"),
		{"SRCREC", itoa(s.Source.SrcRec)},
		comment("SRCREC values: read from SOURCE_FILE=1, plane wave=2"),
		{"SOURCE_FILE", s.Source.File},
		{"RUN_MULTIPLE_SHOTS", itoa(s.Source.RunMultipleShots)},
		{"PLANE_WAVE_DEPTH", ftoa(s.Source.PlaneWaveDepth)},
		{"PLANE_WAVE_ANGLE", ftoa(s.Source.PlaneWaveAngle)},
		{"TS", ftoa(s.Source.TS)},

		{"SIGOUT", itoa(s.SignalOut.Enabled)},
		comment("Output source wavelet: yes=1, no=else"),
		{"SIGOUT_FILE", s.SignalOut.File},
		{"SIGOUT_FORMAT", itoa(s.SignalOut.Format)},
		comment("Supported formats: SU=1, ASCII=2, BINARY=3"),

		comment("Model"),
		{"READMOD", itoa(s.Model.ReadMod)},
		{"MFILE", s.Model.MFile},
		{"WRITE_MODELFILES", itoa(s.Model.WriteModelFiles)},

		comment("Q-approximation"),
		{"L", itoa(s.Q.L)},
		{"F_REF", ftoa(s.Q.FRef)},
		{"FL1", ftoa(s.Q.FL1)},

		comment("Boundary"),
		{"FREE_SURF", itoa(s.Boundary.FreeSurf)},
		{"BOUNDARY", itoa(s.Boundary.Boundary)},
		{"FW", itoa(s.Boundary.FW)},
		{"ABS_TYPE", itoa(s.Boundary.AbsType)},
		comment("ABS_TYPE values: CPML=1, damping=2"),
		comment("CPML parameters"),
		{"NPOWER", ftoa(s.Boundary.NPower)},
		{"K_MAX_CPML", ftoa(s.Boundary.KMaxCPML)},
		{"VPPML", ftoa(s.Boundary.VPPML)},
		{"FPML", ftoa(s.Boundary.FPML)},
		comment("Damping boundary parameters"),
		{"DAMPING", ftoa(s.Boundary.Damping)},

		comment("Snapshots"),
		{"SNAP", itoa(s.Snapshots.Snap)},
		{"TSNAP1", ftoa6(s.Snapshots.TSnap1)},
		{"TSNAP2", ftoa6(s.Snapshots.TSnap2)},
		{"TSNAPINC", ftoa6(s.Snapshots.TSnapInc)},
		{"IDX", itoa(s.Snapshots.IDX)},
		{"IDY", itoa(s.Snapshots.IDY)},
		{"SNAP_FORMAT", itoa(s.Snapshots.Format)},
		{"SNAP_FILE", s.Snapshots.File},

		comment("Receiver"),
		{"SEISMO", itoa(s.Receiver.Seismo)},
		{"READREC", itoa(s.Receiver.ReadRec)},
		{"REC_FILE", s.Receiver.File},
		{"REFRECX, REFRECY", s.Receiver.RefRec},
		{"XREC1,YREC1", s.Receiver.Rec1},
		{"XREC2,YREC2", s.Receiver.Rec2},
		{"NGEOPH", itoa(s.Receiver.NGeoph)},
		comment("Receiver array"),
		{"REC_ARRAY", itoa(s.Receiver.RecArray)},
		{"REC_ARRAY_DEPTH", ftoa(s.Receiver.RecArrayDepth)},
		{"REC_ARRAY_DIST", ftoa(s.Receiver.RecArrayDist)},
		{"DRX", itoa(s.Receiver.DRX)},

		comment("Seismograms"),
		{"NDT", itoa(s.Seismograms.NDT)},
		{"SEIS_FORMAT", itoa(s.Seismograms.Format)},
		{"SEIS_FILE", s.Seismograms.File},

		comment("Monitoring the simulation"),
		{"LOG_FILE", s.Monitoring.LogFile},
		{"LOG", itoa(s.Monitoring.Log)},
		{"LOG_VERBOSITY", s.Monitoring.Verbosity},
		{"OUT_TIMESTEP_INFO", itoa(s.Monitoring.TimestepInfo)},
	}
}

// Render serializes the parameter set as the ordered JSON document SOFI2D
// reads. Every value is a string; descriptive entries carry the value
// "comment" and are ignored by the simulator.
func (s *Set) Render() ([]byte, error) {
	entries := s.entries()

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", e.key, err)
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, fmt.Errorf("encode value for %q: %w", e.key, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// WriteFile renders the parameter set to path.
func (s *Set) WriteFile(path string) error {
	data, err := s.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write parameter file: %w", err)
	}
	return nil
}
