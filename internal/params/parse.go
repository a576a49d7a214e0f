package params

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"sofictl/internal/stages"
)

// Parse reads a rendered parameter file back into a Set. Entries whose value
// is "comment" are skipped; unknown parameter keys are rejected so typos in
// hand-edited files surface immediately.
func Parse(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Set{}, stages.Wrap(stages.ErrFormat, stages.StageParams, "read", "", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return Set{}, stages.Wrap(stages.ErrFormat, stages.StageParams, "parse", "not a flat JSON string mapping", err)
	}

	set := Default(0, 0, 0)
	for key, value := range raw {
		if value == commentValue {
			continue
		}
		if err := set.assign(key, value); err != nil {
			return Set{}, err
		}
	}
	return set, nil
}

// ReadFile parses the parameter file at path.
func ReadFile(path string) (Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return Set{}, stages.Wrap(stages.ErrFormat, stages.StageParams, "open", path, err)
	}
	defer file.Close()
	return Parse(file)
}

func (s *Set) assign(key, value string) error {
	fail := func(err error) error {
		return stages.Wrap(stages.ErrFormat, stages.StageParams, "parse",
			fmt.Sprintf("invalid value %q for %s", value, key), err)
	}
	setInt := func(dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fail(err)
		}
		*dst = v
		return nil
	}
	setFloat := func(dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fail(err)
		}
		*dst = v
		return nil
	}

	switch key {
	case "NPROCX":
		return setInt(&s.Domain.NProcX)
	case "NPROCY":
		return setInt(&s.Domain.NProcY)
	case "FDORDER":
		return setInt(&s.FD.Order)
	case "FDORDER_TIME":
		return setInt(&s.FD.TimeOrder)
	case "MAXRELERROR":
		return setFloat(&s.FD.MaxRelError)
	case "NX":
		return setInt(&s.Grid.NX)
	case "NY":
		return setInt(&s.Grid.NY)
	case "DH":
		return setFloat(&s.Grid.DH)
	case "TIME":
		return setFloat(&s.Time.Time)
	case "DT":
		return setFloat(&s.Time.DT)
	case "WEQ":
		s.WEQ = value
	case "SOURCE_SHAPE":
		return setInt(&s.Source.Shape)
	case "SIGNAL_FILE":
		s.Source.SignalFile = value
	case "SOURCE_TYPE":
		return setInt(&s.Source.Type)
	case "SRCREC":
		return setInt(&s.Source.SrcRec)
	case "SOURCE_FILE":
		s.Source.File = value
	case "RUN_MULTIPLE_SHOTS":
		return setInt(&s.Source.RunMultipleShots)
	case "PLANE_WAVE_DEPTH":
		return setFloat(&s.Source.PlaneWaveDepth)
	case "PLANE_WAVE_ANGLE":
		return setFloat(&s.Source.PlaneWaveAngle)
	case "TS":
		return setFloat(&s.Source.TS)
	case "SIGOUT":
		return setInt(&s.SignalOut.Enabled)
	case "SIGOUT_FILE":
		s.SignalOut.File = value
	case "SIGOUT_FORMAT":
		return setInt(&s.SignalOut.Format)
	case "READMOD":
		return setInt(&s.Model.ReadMod)
	case "MFILE":
		s.Model.MFile = value
	case "WRITE_MODELFILES":
		return setInt(&s.Model.WriteModelFiles)
	case "L":
		return setInt(&s.Q.L)
	case "F_REF":
		return setFloat(&s.Q.FRef)
	case "FL1":
		return setFloat(&s.Q.FL1)
	case "FREE_SURF":
		return setInt(&s.Boundary.FreeSurf)
	case "BOUNDARY":
		return setInt(&s.Boundary.Boundary)
	case "FW":
		return setInt(&s.Boundary.FW)
	case "ABS_TYPE":
		return setInt(&s.Boundary.AbsType)
	case "NPOWER":
		return setFloat(&s.Boundary.NPower)
	case "K_MAX_CPML":
		return setFloat(&s.Boundary.KMaxCPML)
	case "VPPML":
		return setFloat(&s.Boundary.VPPML)
	case "FPML":
		return setFloat(&s.Boundary.FPML)
	case "DAMPING":
		return setFloat(&s.Boundary.Damping)
	case "SNAP":
		return setInt(&s.Snapshots.Snap)
	case "TSNAP1":
		return setFloat(&s.Snapshots.TSnap1)
	case "TSNAP2":
		return setFloat(&s.Snapshots.TSnap2)
	case "TSNAPINC":
		return setFloat(&s.Snapshots.TSnapInc)
	case "IDX":
		return setInt(&s.Snapshots.IDX)
	case "IDY":
		return setInt(&s.Snapshots.IDY)
	case "SNAP_FORMAT":
		return setInt(&s.Snapshots.Format)
	case "SNAP_FILE":
		s.Snapshots.File = value
	case "SEISMO":
		return setInt(&s.Receiver.Seismo)
	case "READREC":
		return setInt(&s.Receiver.ReadRec)
	case "REC_FILE":
		s.Receiver.File = value
	case "REFRECX, REFRECY":
		s.Receiver.RefRec = value
	case "XREC1,YREC1":
		s.Receiver.Rec1 = value
	case "XREC2,YREC2":
		s.Receiver.Rec2 = value
	case "NGEOPH":
		return setInt(&s.Receiver.NGeoph)
	case "REC_ARRAY":
		return setInt(&s.Receiver.RecArray)
	case "REC_ARRAY_DEPTH":
		return setFloat(&s.Receiver.RecArrayDepth)
	case "REC_ARRAY_DIST":
		return setFloat(&s.Receiver.RecArrayDist)
	case "DRX":
		return setInt(&s.Receiver.DRX)
	case "NDT":
		return setInt(&s.Seismograms.NDT)
	case "SEIS_FORMAT":
		return setInt(&s.Seismograms.Format)
	case "SEIS_FILE":
		s.Seismograms.File = value
	case "LOG_FILE":
		s.Monitoring.LogFile = value
	case "LOG":
		return setInt(&s.Monitoring.Log)
	case "LOG_VERBOSITY":
		s.Monitoring.Verbosity = value
	case "OUT_TIMESTEP_INFO":
		return setInt(&s.Monitoring.TimestepInfo)
	default:
		return stages.Wrap(stages.ErrFormat, stages.StageParams, "parse",
			fmt.Sprintf("unknown parameter %q", key), nil)
	}
	return nil
}
