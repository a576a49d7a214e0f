package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sofictl/internal/model"
)

func newModelCommand(ctx *commandContext) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect and convert velocity models",
	}

	modelCmd.AddCommand(newModelInfoCommand())
	modelCmd.AddCommand(newModelPrepareCommand(ctx))

	return modelCmd
}

func newModelInfoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "info <model.segy>",
		Short:       "Print grid shape and velocity statistics of a SEG-Y model",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, err := model.ReadSEGY(args[0])
			if err != nil {
				return err
			}
			stats := grid.Stats()
			width, depth := grid.Extent()

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"nx":    grid.NX,
					"nz":    grid.NZ,
					"dx":    grid.DX,
					"dz":    grid.DZ,
					"width": width,
					"depth": depth,
					"min":   stats.Min,
					"max":   stats.Max,
					"mean":  stats.Mean,
				})
			}
			rows := [][]string{
				{"Traces (nx)", fmt.Sprintf("%d", grid.NX)},
				{"Samples (nz)", fmt.Sprintf("%d", grid.NZ)},
				{"dx", fmt.Sprintf("%g m", grid.DX)},
				{"dz", fmt.Sprintf("%g m", grid.DZ)},
				{"Extent", fmt.Sprintf("%g x %g m", width, depth)},
				{"Velocity min", fmt.Sprintf("%.1f m/s", stats.Min)},
				{"Velocity max", fmt.Sprintf("%.1f m/s", stats.Max)},
				{"Velocity mean", fmt.Sprintf("%.1f m/s", stats.Mean)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Property", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newModelPrepareCommand(ctx *commandContext) *cobra.Command {
	var (
		dx, dz  float64
		dh      float64
		outDir  string
		base    string
		elastic bool
	)

	cmd := &cobra.Command{
		Use:   "prepare <model.segy>",
		Short: "Resample and pad a SEG-Y model into SOFI2D binary model files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			grid, err := model.ReadSEGY(args[0])
			if err != nil {
				return err
			}
			if dx > 0 {
				grid.DX = dx
			}
			if dz > 0 {
				grid.DZ = dz
			}
			if grid.DX <= 0 || grid.DZ <= 0 {
				return fmt.Errorf("%s: grid spacing unknown, pass --dx and --dz", args[0])
			}

			if dh > 0 {
				grid, err = grid.Resample(dh)
				if err != nil {
					return err
				}
			}
			grid, pad, err := grid.PadToMultiple(cfg.Model.PadMultiple)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			prefix := filepath.Join(outDir, base)
			if err := grid.WriteBin(prefix + ".vp"); err != nil {
				return err
			}
			if err := model.GardnerDensity(grid).WriteBin(prefix + ".rho"); err != nil {
				return err
			}
			if elastic {
				if err := model.PoissonShear(grid).WriteBin(prefix + ".vs"); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s.vp (%dx%d at dh=%g m)\n", prefix, grid.NX, grid.NZ, grid.DX)
			if pad.Left+pad.Right+pad.Top+pad.Bottom > 0 {
				fmt.Fprintf(out, "Padded by %d/%d columns and %d/%d rows (edge replication)\n",
					pad.Left, pad.Right, pad.Top, pad.Bottom)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal sample spacing of the input in meters")
	cmd.Flags().Float64Var(&dz, "dz", 0, "Vertical sample spacing of the input in meters")
	cmd.Flags().Float64Var(&dh, "dh", 0, "Target grid spacing; 0 keeps the input spacing")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the binary model files")
	cmd.Flags().StringVar(&base, "base", "model", "Basename for the .vp/.rho/.vs files")
	cmd.Flags().BoolVar(&elastic, "elastic", true, "Also derive a shear velocity model")
	return cmd
}
