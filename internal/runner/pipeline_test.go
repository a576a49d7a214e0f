package runner

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"sofictl/internal/geometry"
	"sofictl/internal/params"
	"sofictl/internal/runs"
	"sofictl/internal/simulator"
	"sofictl/internal/stages"
	"sofictl/internal/testsupport"
)

type fakeSimulator struct {
	calls int
	err   error
	onRun func(req simulator.Request)
}

func (f *fakeSimulator) Run(_ context.Context, req simulator.Request) (simulator.Result, error) {
	f.calls++
	if f.onRun != nil {
		f.onRun(req)
	}
	if f.err != nil {
		return simulator.Result{ExitCode: 1, LogPath: req.LogPath}, f.err
	}
	return simulator.Result{ExitCode: 0, LogPath: req.LogPath}, nil
}

func writeSeismogramFile(t *testing.T, path string, nrec, nt int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	samples := make([]float32, nrec*nt)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 7))
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, samples); err != nil {
		t.Fatalf("write samples: %v", err)
	}
}

func testCase() Case {
	return Case{
		Params: params.Default(0, 0, 10),
		Model:  ModelSpec{ConstantVp: 3000, NX: 30, NZ: 20, DX: 10, DZ: 10},
		Sources: []geometry.Source{
			{X: 100, Z: 50, CenterFreq: 15, Amplitude: 1, Type: 1},
		},
		Receivers: geometry.Line(50, 10, 250, 10, 10),
	}
}

func TestPipelineRunSuccess(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPadMultiple(8))
	store := testsupport.MustOpenStore(t, cfg)

	const nrec, nt = 10, 6
	sim := &fakeSimulator{
		onRun: func(req simulator.Request) {
			writeSeismogramFile(t, filepath.Join(req.Dir, outputDirName, "seis_p.bin"), nrec, nt)
		},
	}
	p, err := New(Options{Config: cfg, Store: store, Simulator: sim})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := p.Run(context.Background(), testCase())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sim.calls != 1 {
		t.Fatalf("simulator invoked %d times, want 1", sim.calls)
	}
	if report.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if len(report.OutputFiles) != 1 {
		t.Fatalf("OutputFiles = %v, want one entry", report.OutputFiles)
	}
	if report.Seismogram == nil {
		t.Fatal("expected a parsed seismogram")
	}
	if report.Seismogram.NRec != nrec || report.Seismogram.NT != nt {
		t.Fatalf("seismogram shape (%d, %d), want (%d, %d)",
			report.Seismogram.NRec, report.Seismogram.NT, nrec, nt)
	}

	ws := report.Workspace
	for _, rel := range []string{
		parameterFileName,
		filepath.Join(modelDirName, "model.vp"),
		filepath.Join(modelDirName, "model.rho"),
		filepath.Join(modelDirName, "model.vs"),
		filepath.Join(geomDirName, sourceFileName),
		filepath.Join(geomDirName, receiverFileName),
	} {
		if _, err := os.Stat(filepath.Join(ws.Root, rel)); err != nil {
			t.Errorf("missing workspace file %s: %v", rel, err)
		}
	}

	// The rendered parameter file carries the padded grid shape.
	raw, err := os.Open(ws.ParameterFile())
	if err != nil {
		t.Fatalf("open parameter file: %v", err)
	}
	defer raw.Close()
	rendered, err := params.Parse(raw)
	if err != nil {
		t.Fatalf("parse parameter file: %v", err)
	}
	if rendered.Grid.NX != 32 || rendered.Grid.NY != 24 {
		t.Fatalf("rendered grid %dx%d, want 32x24", rendered.Grid.NX, rendered.Grid.NY)
	}
	if rendered.Grid.NX%rendered.Domain.NProcX != 0 || rendered.Grid.NY%rendered.Domain.NProcY != 0 {
		t.Fatalf("decomposition %dx%d does not divide grid %dx%d",
			rendered.Domain.NProcX, rendered.Domain.NProcY, rendered.Grid.NX, rendered.Grid.NY)
	}
	if rendered.Model.MFile != "./model/model" {
		t.Fatalf("MFILE = %q", rendered.Model.MFile)
	}

	stored := mustGetRun(t, store, report.RunID)
	if stored.Status != "completed" {
		t.Fatalf("stored status = %q, want completed", stored.Status)
	}
}

func TestPipelineSimulatorFailureAbortsBeforeCollect(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPadMultiple(8))
	store := testsupport.MustOpenStore(t, cfg)

	sim := &fakeSimulator{
		err: stages.Wrap(stages.ErrExternalTool, stages.StageSimulate, "run", "exit status 1", nil),
	}
	p, err := New(Options{Config: cfg, Store: store, Simulator: sim})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := p.Run(context.Background(), testCase())
	if err == nil {
		t.Fatal("expected an error from a failing simulator")
	}
	if !errors.Is(err, stages.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
	if got := stages.FailedStage(err); got != stages.StageSimulate {
		t.Fatalf("FailedStage = %q, want %q", got, stages.StageSimulate)
	}
	if report.Seismogram != nil || len(report.OutputFiles) != 0 {
		t.Fatal("output collection ran after a simulator failure")
	}

	stored := mustGetRun(t, store, report.RunID)
	if stored.Status != "failed" {
		t.Fatalf("stored status = %q, want failed", stored.Status)
	}
	if stored.ErrorMessage == "" {
		t.Fatal("expected the failure message to be recorded")
	}
}

func TestPipelineRejectsOutOfBoundsGeometryBeforeSimulator(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPadMultiple(8))

	sim := &fakeSimulator{}
	p, err := New(Options{Config: cfg, Simulator: sim})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c := testCase()
	c.Receivers = append(c.Receivers, geometry.Receiver{X: 1e6, Z: 10})
	_, err = p.Run(context.Background(), c)
	if err == nil {
		t.Fatal("expected out-of-bounds receivers to be rejected")
	}
	if !errors.Is(err, stages.ErrFormat) {
		t.Fatalf("error = %v, want ErrFormat", err)
	}
	if got := stages.FailedStage(err); got != stages.StageGeometry {
		t.Fatalf("FailedStage = %q, want %q", got, stages.StageGeometry)
	}
	if sim.calls != 0 {
		t.Fatalf("simulator invoked %d times before validation failure", sim.calls)
	}
}

func TestPipelineRejectsBadModelSpec(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	sim := &fakeSimulator{}
	p, err := New(Options{Config: cfg, Simulator: sim})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c := testCase()
	c.Model = ModelSpec{}
	_, err = p.Run(context.Background(), c)
	if !errors.Is(err, stages.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
	if sim.calls != 0 {
		t.Fatal("simulator invoked despite an unusable model spec")
	}
}

func TestPipelineAcousticSkipsShearModel(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPadMultiple(8))

	sim := &fakeSimulator{
		onRun: func(req simulator.Request) {
			writeSeismogramFile(t, filepath.Join(req.Dir, outputDirName, "seis_p.bin"), 10, 4)
		},
	}
	p, err := New(Options{Config: cfg, Simulator: sim})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c := testCase()
	c.Params.WEQ = "AC_ISO"
	report, err := p.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(report.Workspace.ModelDir, "model.vs")); !os.IsNotExist(err) {
		t.Fatalf("acoustic run wrote a shear model: %v", err)
	}
	if _, err := os.Stat(filepath.Join(report.Workspace.ModelDir, "model.rho")); err != nil {
		t.Fatalf("missing density model: %v", err)
	}
}

func mustGetRun(t *testing.T, store *runs.Store, id string) *runs.Run {
	t.Helper()
	run, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%s): %v", id, err)
	}
	return run
}

func TestPipelineArchivesModelInput(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPadMultiple(8))

	segyPath := filepath.Join(t.TempDir(), "line.sgy")
	writeFlatSEGY(t, segyPath, 30, 20, 3000)

	sim := &fakeSimulator{
		onRun: func(req simulator.Request) {
			writeSeismogramFile(t, filepath.Join(req.Dir, outputDirName, "seis_p.bin"), 10, 4)
		},
	}
	p, err := New(Options{Config: cfg, Simulator: sim})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c := testCase()
	c.Model = ModelSpec{SEGYPath: segyPath, DX: 10, DZ: 10}
	report, err := p.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(report.Workspace.ModelDir, "input.sgy")); err != nil {
		t.Fatalf("input model was not archived: %v", err)
	}
}

func writeFlatSEGY(t *testing.T, path string, ntraces, ns int, value float32) {
	t.Helper()

	buf := make([]byte, 3200+400)
	binary.BigEndian.PutUint16(buf[3200+20:], uint16(ns))
	binary.BigEndian.PutUint16(buf[3200+24:], 5)

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
		t.Fatalf("write test model: %v", err)
	}
}
