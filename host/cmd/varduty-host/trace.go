package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"varduty/core"
	"varduty/host/sim"
	"varduty/protocol"
)

func newTraceCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Dump the records of a binary trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()

			tr := protocol.NewTraceReader(f)
			var at uint64
			for n := 0; limit <= 0 || n < limit; n++ {
				rec, err := tr.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("record %d: %w", n, err)
				}
				at += uint64(rec.DeltaUS)
				fmt.Fprintf(out, "%10d us  +%6d  mode %d  raw %3d\n", at, rec.DeltaUS, rec.Mode, rec.Raw)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many records (0 = all)")
	return cmd
}

func newPlotCmd() *cobra.Command {
	var (
		output string
		fromMS uint64
		toMS   uint64
	)
	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Render a PNG plot from a binary trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			samples, err := sim.ReadTrace(f, core.NativeMax(cfg.ResolutionBits))
			if err != nil {
				return err
			}
			res := sim.FromSamples(cfg, core.NativeMax(cfg.ResolutionBits), samples)
			opts := sim.PlotOptions{Width: 1200, Height: 400, FromUS: fromMS * 1000, ToUS: toMS * 1000}
			return writeFile(output, func(w io.Writer) error { return sim.Plot(w, res, opts) })
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "trace.png", "PNG output path")
	cmd.Flags().Uint64Var(&fromMS, "from-ms", 0, "Plot window start")
	cmd.Flags().Uint64Var(&toMS, "to-ms", 0, "Plot window end (0 = end of trace)")
	return cmd
}
