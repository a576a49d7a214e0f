package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sofictl/internal/model"
	"sofictl/internal/output"
	"sofictl/internal/plot"
)

func newPlotCommand(ctx *commandContext) *cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Render models and seismograms to interactive HTML charts",
	}

	plotCmd.AddCommand(newPlotModelCommand())
	plotCmd.AddCommand(newPlotSeismogramCommand())

	return plotCmd
}

func newPlotModelCommand() *cobra.Command {
	var (
		nx, nz  int
		dx, dz  float64
		outPath string
		title   string
	)

	cmd := &cobra.Command{
		Use:         "model <model.segy|model.bin>",
		Short:       "Render a velocity model heatmap",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, err := loadGrid(args[0], nx, nz, dx, dz)
			if err != nil {
				return err
			}
			if err := plot.ModelFile(grid, title, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&nx, "nx", 0, "Grid width for raw binary input")
	cmd.Flags().IntVar(&nz, "nz", 0, "Grid depth for raw binary input")
	cmd.Flags().Float64Var(&dx, "dx", 1, "Horizontal spacing for raw binary input")
	cmd.Flags().Float64Var(&dz, "dz", 1, "Vertical spacing for raw binary input")
	cmd.Flags().StringVarP(&outPath, "out", "o", "model.html", "Output HTML path")
	cmd.Flags().StringVar(&title, "title", "Velocity model", "Chart title")
	return cmd
}

func loadGrid(path string, nx, nz int, dx, dz float64) (*model.Grid, error) {
	if nx > 0 && nz > 0 {
		return model.ReadBin(path, nx, nz, dx, dz)
	}
	return model.ReadSEGY(path)
}

func newPlotSeismogramCommand() *cobra.Command {
	var (
		nrec      int
		dt        float64
		outPath   string
		title     string
		normalize bool
	)

	cmd := &cobra.Command{
		Use:         "seismogram <seis.bin>",
		Short:       "Render a binary seismogram heatmap",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if nrec < 1 {
				return fmt.Errorf("--nrec is required to shape the seismogram")
			}
			seis, err := output.ReadSeismogram(args[0], nrec, dt)
			if err != nil {
				return err
			}
			if err := plot.SeismogramFile(seis, title, outPath, normalize); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&nrec, "nrec", 0, "Number of receiver traces in the file")
	cmd.Flags().Float64Var(&dt, "dt", 0, "Sample interval in seconds")
	cmd.Flags().StringVarP(&outPath, "out", "o", "seismogram.html", "Output HTML path")
	cmd.Flags().StringVar(&title, "title", "Seismogram", "Chart title")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Normalize each trace before rendering")
	return cmd
}
