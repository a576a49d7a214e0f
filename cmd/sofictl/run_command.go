package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sofictl/internal/geometry"
	"sofictl/internal/params"
	"sofictl/internal/runner"
	"sofictl/internal/simulator"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		segyPath   string
		dx, dz     float64
		constantVp float64
		nx, nz     int

		dh       float64
		duration float64
		timestep float64
		weq      string

		sourceFlags []string
		sourceFreq  float64
		sourceAmp   float64
		sourceType  int

		recLine string
		recN    int
		recFile string

		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare a workspace and execute one SOFI2D simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}

			set := params.Default(0, 0, dh)
			set.Time.Time = duration
			set.Time.DT = timestep
			if weq != "" {
				set.WEQ = weq
			}

			sources, err := parseSources(sourceFlags, sourceFreq, sourceAmp, sourceType)
			if err != nil {
				return err
			}
			receivers, err := resolveReceivers(recLine, recN, recFile)
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			sim := simulator.NewCLI(
				simulator.WithBinary(cfg.Simulator.Binary),
				simulator.WithMPIRun(cfg.Simulator.MPIRun),
			)
			pipeline, err := runner.New(runner.Options{
				Config:    cfg,
				Store:     store,
				Simulator: sim,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			report, err := pipeline.Run(cmd.Context(), runner.Case{
				Params: set,
				Model: runner.ModelSpec{
					SEGYPath:   segyPath,
					DX:         dx,
					DZ:         dz,
					ConstantVp: constantVp,
					NX:         nx,
					NZ:         nz,
				},
				Sources:   sources,
				Receivers: receivers,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, runSummary(report))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s completed in %s\n", report.RunID, report.Result.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "Workspace: %s\n", report.Workspace.Root)
			fmt.Fprintf(out, "Output files: %d\n", len(report.OutputFiles))
			if report.Seismogram != nil {
				fmt.Fprintf(out, "Seismogram: %d traces x %d samples\n", report.Seismogram.NRec, report.Seismogram.NT)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&segyPath, "segy", "", "SEG-Y velocity model to simulate on")
	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal sample spacing of the input model in meters")
	cmd.Flags().Float64Var(&dz, "dz", 0, "Vertical sample spacing of the input model in meters")
	cmd.Flags().Float64Var(&constantVp, "vp", 0, "Constant velocity for a homogeneous model (m/s)")
	cmd.Flags().IntVar(&nx, "nx", 0, "Grid width of a homogeneous model in samples")
	cmd.Flags().IntVar(&nz, "nz", 0, "Grid depth of a homogeneous model in samples")

	cmd.Flags().Float64Var(&dh, "dh", 10, "Simulation grid spacing in meters")
	cmd.Flags().Float64Var(&duration, "time", 2, "Simulated duration in seconds")
	cmd.Flags().Float64Var(&timestep, "dt", 0.001, "Time step in seconds")
	cmd.Flags().StringVar(&weq, "weq", "", "Wave equation (e.g. EL_ISO, AC_ISO)")

	cmd.Flags().StringArrayVar(&sourceFlags, "source", nil, "Source position as x,z in meters (repeatable)")
	cmd.Flags().Float64Var(&sourceFreq, "fc", 15, "Source center frequency in Hz")
	cmd.Flags().Float64Var(&sourceAmp, "amplitude", 1, "Source amplitude")
	cmd.Flags().IntVar(&sourceType, "source-type", 1, "Source type (1 explosive, 2 x-force, 3 z-force)")

	cmd.Flags().StringVar(&recLine, "rec-line", "", "Receiver line as x1,z1,x2,z2 in meters")
	cmd.Flags().IntVar(&recN, "nrec", 0, "Number of receivers along the line")
	cmd.Flags().StringVar(&recFile, "rec-file", "", "Existing receiver.dat to reuse")

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit a JSON run summary")
	return cmd
}

func resolveReceivers(recLine string, recN int, recFile string) ([]geometry.Receiver, error) {
	switch {
	case recFile != "":
		return geometry.ReadReceiversFile(recFile)
	case recLine != "":
		return parseReceiverLine(recLine, recN)
	default:
		return nil, errors.New("receivers are required: pass --rec-line with --nrec, or --rec-file")
	}
}

type runSummaryView struct {
	RunID       string   `json:"run_id"`
	Workspace   string   `json:"workspace"`
	ExitCode    int      `json:"exit_code"`
	DurationMS  int64    `json:"duration_ms"`
	OutputFiles []string `json:"output_files"`
	Traces      int      `json:"traces,omitempty"`
	Samples     int      `json:"samples,omitempty"`
}

func runSummary(report *runner.Report) runSummaryView {
	view := runSummaryView{
		RunID:       report.RunID,
		Workspace:   report.Workspace.Root,
		ExitCode:    report.Result.ExitCode,
		DurationMS:  report.Result.Duration.Milliseconds(),
		OutputFiles: report.OutputFiles,
	}
	if report.Seismogram != nil {
		view.Traces = report.Seismogram.NRec
		view.Samples = report.Seismogram.NT
	}
	return view
}
