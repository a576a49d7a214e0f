package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"sofictl/internal/config"
	"sofictl/internal/fileutil"
	"sofictl/internal/geometry"
	"sofictl/internal/logging"
	"sofictl/internal/model"
	"sofictl/internal/output"
	"sofictl/internal/params"
	"sofictl/internal/runs"
	"sofictl/internal/simulator"
	"sofictl/internal/stages"
)

// ModelSpec names the velocity model input for a run: either a SEG-Y file
// with its horizontal spacing, or a homogeneous model built from dimensions
// and a constant velocity.
type ModelSpec struct {
	SEGYPath string
	DX       float64
	DZ       float64

	ConstantVp float64
	NX         int
	NZ         int
}

// Case is one complete simulation description.
type Case struct {
	Params    params.Set
	Model     ModelSpec
	Sources   []geometry.Source
	Receivers []geometry.Receiver
}

// Report summarizes a finished run.
type Report struct {
	RunID       string
	Workspace   *Workspace
	Result      simulator.Result
	OutputFiles []string
	Seismogram  *output.Seismogram
}

// Options configures a Pipeline.
type Options struct {
	Config    *config.Config
	Store     *runs.Store
	Simulator simulator.Runner
	Logger    *slog.Logger
}

// Pipeline sequences parameter rendering, model preparation, geometry
// export, simulator invocation, and output collection. Stages run strictly
// in order; the first failure aborts the run.
type Pipeline struct {
	cfg    *config.Config
	store  *runs.Store
	sim    simulator.Runner
	logger *slog.Logger
}

// New constructs a pipeline. Config and Simulator are required; Store may be
// nil when run history is not wanted.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("runner requires config")
	}
	if opts.Simulator == nil {
		return nil, errors.New("runner requires a simulator")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    opts.Config,
		store:  opts.Store,
		sim:    opts.Simulator,
		logger: logger,
	}, nil
}

// Run executes one case synchronously and returns its report. A lock on the
// work directory serializes concurrent invocations sharing it; each run gets
// a fresh workspace named by its ID.
func (p *Pipeline) Run(ctx context.Context, c Case) (*Report, error) {
	if err := os.MkdirAll(p.cfg.Paths.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.WorkDir, "sofictl.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work directory lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another run is already using this work directory")
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	ws, err := newWorkspace(p.cfg.Paths.WorkDir, runID)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("run started", logging.String("workspace", ws.Root))

	record := &runs.Run{ID: runID, WorkDir: ws.Root, ParameterFile: ws.ParameterFile()}
	if p.store != nil {
		if err := p.store.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("persist run: %w", err)
		}
	}

	report := &Report{RunID: runID, Workspace: ws}
	started := time.Now()
	if err := p.execute(ctx, logger, &c, ws, report); err != nil {
		if p.store != nil {
			if storeErr := p.store.MarkFailed(ctx, record, report.Result.ExitCode, time.Since(started), err); storeErr != nil {
				logger.Error("failed to persist run failure", logging.Error(storeErr))
			}
		}
		logger.Error("run failed",
			logging.String(logging.FieldStage, stages.FailedStage(err)),
			logging.Error(err))
		return report, err
	}

	if p.store != nil {
		if err := p.store.MarkCompleted(ctx, record, report.Result.ExitCode, time.Since(started)); err != nil {
			logger.Error("failed to persist run completion", logging.Error(err))
		}
	}
	logger.Info("run completed",
		logging.Duration("duration", time.Since(started)),
		logging.Int("output_files", len(report.OutputFiles)))
	return report, nil
}

func (p *Pipeline) execute(ctx context.Context, logger *slog.Logger, c *Case, ws *Workspace, report *Report) error {
	if err := p.stage(logger, stages.StageModel, func() error {
		return p.prepareModel(c, ws)
	}); err != nil {
		return err
	}

	if err := p.stage(logger, stages.StageGeometry, func() error {
		return p.writeGeometry(c, ws)
	}); err != nil {
		return err
	}

	if err := p.stage(logger, stages.StageParams, func() error {
		return p.renderParams(c, ws)
	}); err != nil {
		return err
	}

	if err := p.stage(logger, stages.StageSimulate, func() error {
		result, err := p.sim.Run(ctx, simulator.Request{
			ParameterFile: parameterFileName,
			Dir:           ws.Root,
			Ranks:         c.Params.Domain.NProcX * c.Params.Domain.NProcY,
			LogPath:       ws.SimulatorLog(),
		})
		report.Result = result
		return err
	}); err != nil {
		return err
	}

	return p.stage(logger, stages.StageCollect, func() error {
		return p.collectOutputs(c, ws, report)
	})
}

func (p *Pipeline) stage(logger *slog.Logger, name string, fn func() error) error {
	stageLogger := logging.WithComponent(logger, name)
	stageLogger.Info("stage started")
	started := time.Now()
	if err := fn(); err != nil {
		stageLogger.Error("stage failed", logging.Error(err))
		return err
	}
	stageLogger.Info("stage completed", logging.Duration("elapsed", time.Since(started)))
	return nil
}

// prepareModel loads the velocity grid, resamples it onto the run's grid
// spacing, pads it for domain decomposition, derives density (and shear
// velocity for elastic runs), and exports the simulator's binary model
// files. Grid and decomposition parameters are updated to the final shape.
func (p *Pipeline) prepareModel(c *Case, ws *Workspace) error {
	vp, err := p.loadModel(&c.Model, ws)
	if err != nil {
		return err
	}

	dh := c.Params.Grid.DH
	if dh <= 0 {
		return stages.Wrap(stages.ErrConfiguration, stages.StageModel, "prepare", "DH: must be a positive grid spacing", nil)
	}
	vp, err = vp.Resample(dh)
	if err != nil {
		return err
	}
	vp, _, err = vp.PadToMultiple(p.cfg.Model.PadMultiple)
	if err != nil {
		return err
	}

	c.Params.Grid.NX = vp.NX
	c.Params.Grid.NY = vp.NZ

	decomp := model.SuggestDecomposition(vp.NX, vp.NZ, p.cfg.Simulator.MaxCores,
		c.Params.Boundary.FW, c.Params.FD.Order)
	c.Params.Domain.NProcX = decomp.NProcX
	c.Params.Domain.NProcY = decomp.NProcY

	if err := vp.WriteBin(filepath.Join(ws.ModelDir, modelFileBase+".vp")); err != nil {
		return err
	}
	rho := model.GardnerDensity(vp)
	if err := rho.WriteBin(filepath.Join(ws.ModelDir, modelFileBase+".rho")); err != nil {
		return err
	}
	if isElastic(c.Params.WEQ) {
		vs := model.PoissonShear(vp)
		if err := vs.WriteBin(filepath.Join(ws.ModelDir, modelFileBase+".vs")); err != nil {
			return err
		}
	}

	c.Params.Model.ReadMod = 1
	c.Params.Model.MFile = "./" + modelDirName + "/" + modelFileBase
	return nil
}

func (p *Pipeline) loadModel(spec *ModelSpec, ws *Workspace) (*model.Grid, error) {
	if spec.SEGYPath != "" {
		if err := fileutil.RequireFile(spec.SEGYPath); err != nil {
			return nil, stages.Wrap(stages.ErrConfiguration, stages.StageModel, "prepare", "model input", err)
		}
		grid, err := model.ReadSEGY(spec.SEGYPath)
		if err != nil {
			return nil, err
		}
		// Keep a copy of the exact input next to the exported grids so a run
		// stays reproducible after the original moves.
		if err := fileutil.CopyFile(spec.SEGYPath, filepath.Join(ws.ModelDir, "input.sgy")); err != nil {
			return nil, stages.Wrap(stages.ErrConfiguration, stages.StageModel, "prepare", "archive model input", err)
		}
		if spec.DX > 0 {
			grid.DX = spec.DX
		}
		if spec.DZ > 0 {
			grid.DZ = spec.DZ
		}
		if grid.DX <= 0 || grid.DZ <= 0 {
			return nil, stages.Wrap(stages.ErrFormat, stages.StageModel, "prepare",
				fmt.Sprintf("%s: grid spacing unknown, pass dx/dz", spec.SEGYPath), nil)
		}
		return grid, nil
	}
	if spec.ConstantVp <= 0 {
		return nil, stages.Wrap(stages.ErrConfiguration, stages.StageModel, "prepare",
			"model: either a SEG-Y path or a positive constant velocity is required", nil)
	}
	if spec.NX < 2 || spec.NZ < 2 {
		return nil, stages.Wrap(stages.ErrConfiguration, stages.StageModel, "prepare",
			fmt.Sprintf("model: constant model needs dimensions, got %dx%d", spec.NX, spec.NZ), nil)
	}
	dx := spec.DX
	dz := spec.DZ
	if dx <= 0 {
		dx = 1
	}
	if dz <= 0 {
		dz = dx
	}
	return model.NewConstant(spec.NX, spec.NZ, dx, dz, float32(spec.ConstantVp))
}

func isElastic(weq string) bool {
	return strings.HasPrefix(weq, "EL_") || strings.HasPrefix(weq, "VEL_")
}

// writeGeometry validates coordinates against the final model bounds and
// writes the positional files. Coordinate order is preserved: the receiver
// file order fixes the trace order in the simulator's output.
func (p *Pipeline) writeGeometry(c *Case, ws *Workspace) error {
	bounds := geometry.GridBounds(c.Params.Grid.NX, c.Params.Grid.NY, c.Params.Grid.DH)

	if err := geometry.WriteSourcesFile(filepath.Join(ws.GeomDir, sourceFileName), c.Sources, bounds); err != nil {
		return err
	}
	if err := geometry.WriteReceiversFile(filepath.Join(ws.GeomDir, receiverFileName), c.Receivers, bounds); err != nil {
		return err
	}

	c.Params.Source.SrcRec = 1
	c.Params.Source.File = "./" + geomDirName + "/" + sourceFileName
	c.Params.Receiver.ReadRec = 1
	c.Params.Receiver.File = "./" + geomDirName + "/" + receiverFileName
	return nil
}

func (p *Pipeline) renderParams(c *Case, ws *Workspace) error {
	c.Params.Seismograms.File = "./" + outputDirName + "/seis"
	c.Params.Snapshots.File = "./" + outputDirName + "/snap"
	c.Params.SignalOut.File = "./" + outputDirName + "/shot"
	c.Params.Monitoring.LogFile = "./" + logDirName + "/" + simulatorLogName

	if err := c.Params.Validate(); err != nil {
		return err
	}
	return c.Params.WriteFile(ws.ParameterFile())
}

// collectOutputs verifies the simulator produced seismogram files and parses
// the first binary one to confirm it matches the receiver count.
func (p *Pipeline) collectOutputs(c *Case, ws *Workspace, report *Report) error {
	entries, err := os.ReadDir(ws.OutputDir)
	if err != nil {
		return stages.Wrap(stages.ErrOutputParse, stages.StageCollect, "scan", ws.OutputDir, err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			report.OutputFiles = append(report.OutputFiles, filepath.Join(ws.OutputDir, entry.Name()))
		}
	}
	if len(report.OutputFiles) == 0 {
		return stages.Wrap(stages.ErrOutputParse, stages.StageCollect, "scan",
			fmt.Sprintf("simulator produced no output files in %s", ws.OutputDir), nil)
	}

	// Binary seismograms only; SU or ASCII output formats are collected but
	// not parsed here.
	if c.Params.Seismograms.Format != 3 {
		return nil
	}
	for _, path := range report.OutputFiles {
		if !strings.HasPrefix(filepath.Base(path), "seis") || !strings.HasSuffix(path, ".bin") {
			continue
		}
		dt := c.Params.Time.DT * float64(c.Params.Seismograms.NDT)
		seis, err := output.ReadSeismogram(path, len(c.Receivers), dt)
		if err != nil {
			return err
		}
		report.Seismogram = seis
		break
	}
	return nil
}
