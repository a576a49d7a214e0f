package params

import (
	"fmt"
	"slices"

	"sofictl/internal/stages"
)

func requireErr(key, reason string) error {
	return stages.Wrap(stages.ErrConfiguration, stages.StageParams, "validate",
		fmt.Sprintf("%s: %s", key, reason), nil)
}

// Validate checks that every required parameter is present and sane. The
// first violation is returned; nothing downstream runs after a failure.
func (s *Set) Validate() error {
	if s.Grid.NX <= 0 {
		return requireErr("NX", "must be a positive grid dimension")
	}
	if s.Grid.NY <= 0 {
		return requireErr("NY", "must be a positive grid dimension")
	}
	if s.Grid.DH <= 0 {
		return requireErr("DH", "must be a positive grid spacing")
	}
	if s.Time.Time <= 0 {
		return requireErr("TIME", "must be a positive duration")
	}
	if s.Time.DT <= 0 {
		return requireErr("DT", "must be a positive time step")
	}
	if s.Time.DT > s.Time.Time {
		return requireErr("DT", "exceeds TIME")
	}
	if s.Domain.NProcX < 1 || s.Domain.NProcY < 1 {
		return requireErr("NPROCX/NPROCY", "must be at least 1")
	}
	if s.Grid.NX%s.Domain.NProcX != 0 {
		return requireErr("NPROCX", fmt.Sprintf("must divide NX=%d evenly", s.Grid.NX))
	}
	if s.Grid.NY%s.Domain.NProcY != 0 {
		return requireErr("NPROCY", fmt.Sprintf("must divide NY=%d evenly", s.Grid.NY))
	}
	if !slices.Contains(WaveEquations, s.WEQ) {
		return requireErr("WEQ", fmt.Sprintf("unknown wave equation %q", s.WEQ))
	}
	if s.Source.File == "" {
		return requireErr("SOURCE_FILE", "is required")
	}
	if s.Receiver.ReadRec == 1 && s.Receiver.File == "" {
		return requireErr("REC_FILE", "is required when READREC=1")
	}
	if s.Model.ReadMod == 1 && s.Model.MFile == "" {
		return requireErr("MFILE", "is required when READMOD=1")
	}
	if s.Boundary.AbsType != 1 && s.Boundary.AbsType != 2 {
		return requireErr("ABS_TYPE", "must be 1 (CPML) or 2 (damping)")
	}
	if s.Boundary.FW < 0 {
		return requireErr("FW", "must not be negative")
	}
	if s.Seismograms.File == "" {
		return requireErr("SEIS_FILE", "is required")
	}
	return nil
}
