package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sofictl/internal/geometry"
)

func newGeometryCommand(ctx *commandContext) *cobra.Command {
	geomCmd := &cobra.Command{
		Use:   "geometry",
		Short: "Write and check acquisition geometry files",
	}

	geomCmd.AddCommand(newGeometryWriteCommand())
	geomCmd.AddCommand(newGeometryCheckCommand())

	return geomCmd
}

func newGeometryWriteCommand() *cobra.Command {
	var (
		nx, nz      int
		dh          float64
		sourceFlags []string
		sourceFreq  float64
		sourceAmp   float64
		sourceType  int
		recLine     string
		recN        int
		outDir      string
	)

	cmd := &cobra.Command{
		Use:         "write",
		Short:       "Write source.dat and receiver.dat for a grid",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if nx < 2 || nz < 2 || dh <= 0 {
				return fmt.Errorf("grid bounds require --nx, --nz and --dh")
			}
			bounds := geometry.GridBounds(nx, nz, dh)

			sources, err := parseSources(sourceFlags, sourceFreq, sourceAmp, sourceType)
			if err != nil {
				return err
			}
			receivers, err := parseReceiverLine(recLine, recN)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			sourcePath := filepath.Join(outDir, "source.dat")
			receiverPath := filepath.Join(outDir, "receiver.dat")
			if err := geometry.WriteSourcesFile(sourcePath, sources, bounds); err != nil {
				return err
			}
			if err := geometry.WriteReceiversFile(receiverPath, receivers, bounds); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d sources to %s\n", len(sources), sourcePath)
			fmt.Fprintf(out, "Wrote %d receivers to %s\n", len(receivers), receiverPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&nx, "nx", 0, "Grid width in samples")
	cmd.Flags().IntVar(&nz, "nz", 0, "Grid depth in samples")
	cmd.Flags().Float64Var(&dh, "dh", 0, "Grid spacing in meters")
	cmd.Flags().StringArrayVar(&sourceFlags, "source", nil, "Source position as x,z in meters (repeatable)")
	cmd.Flags().Float64Var(&sourceFreq, "fc", 15, "Source center frequency in Hz")
	cmd.Flags().Float64Var(&sourceAmp, "amplitude", 1, "Source amplitude")
	cmd.Flags().IntVar(&sourceType, "source-type", 1, "Source type (1 explosive, 2 x-force, 3 z-force)")
	cmd.Flags().StringVar(&recLine, "rec-line", "", "Receiver line as x1,z1,x2,z2 in meters")
	cmd.Flags().IntVar(&recN, "nrec", 0, "Number of receivers along the line")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the geometry files")
	return cmd
}

func newGeometryCheckCommand() *cobra.Command {
	var (
		nx, nz int
		dh     float64
	)

	cmd := &cobra.Command{
		Use:         "check <receiver.dat>",
		Short:       "Validate a receiver file against grid bounds",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			receivers, err := geometry.ReadReceiversFile(args[0])
			if err != nil {
				return err
			}
			if nx >= 2 && nz >= 2 && dh > 0 {
				bounds := geometry.GridBounds(nx, nz, dh)
				if err := geometry.ValidateReceivers(receivers, bounds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d receivers, all inside %gx%g m\n",
					len(receivers), bounds.Width, bounds.Depth)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d receivers parsed\n", len(receivers))
			return nil
		},
	}

	cmd.Flags().IntVar(&nx, "nx", 0, "Grid width in samples")
	cmd.Flags().IntVar(&nz, "nz", 0, "Grid depth in samples")
	cmd.Flags().Float64Var(&dh, "dh", 0, "Grid spacing in meters")
	return cmd
}
