package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"varduty/host/sim"
)

func newSimCmd() *cobra.Command {
	var (
		durationMS uint64
		seed       uint64
		loopCost   uint32
		yieldCost  uint32
		indicator  bool
		tracePath  string
		plotPath   string
		plotFromMS uint64
		plotToMS   uint64
	)
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Simulate the generator against a virtual clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := sim.Run(sim.Options{
				Config:      cfg,
				DurationUS:  durationMS * 1000,
				LoopCostUS:  loopCost,
				YieldCostUS: yieldCost,
				Seed:        seed,
				Indicator:   indicator,
				Log:         newLogger(),
			})
			if err != nil {
				return err
			}
			printAnalysis(cmd.OutOrStdout(), sim.Analyze(res))

			if tracePath != "" {
				if err := writeFile(tracePath, func(w io.Writer) error { return sim.WriteTrace(w, res) }); err != nil {
					return err
				}
			}
			if plotPath != "" {
				opts := sim.PlotOptions{Width: 1200, Height: 400, FromUS: plotFromMS * 1000, ToUS: plotToMS * 1000}
				if err := writeFile(plotPath, func(w io.Writer) error { return sim.Plot(w, res, opts) }); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint64VarP(&durationMS, "duration-ms", "t", 1200, "Simulated run time in ms")
	f.Uint64Var(&seed, "seed", 1, "Duty table seed")
	f.Uint32Var(&loopCost, "loop-cost-us", 1, "Virtual time per loop iteration")
	f.Uint32Var(&yieldCost, "yield-cost-us", 0, "Virtual time per cooperative yield")
	f.BoolVar(&indicator, "indicator", false, "Simulate the blocking indicator LED")
	f.StringVar(&tracePath, "trace", "", "Write a binary trace to this file")
	f.StringVar(&plotPath, "plot", "", "Render a PNG plot to this file")
	f.Uint64Var(&plotFromMS, "plot-from-ms", 0, "Plot window start")
	f.Uint64Var(&plotToMS, "plot-to-ms", 0, "Plot window end (0 = end of run)")
	return cmd
}

func printAnalysis(out io.Writer, a sim.Analysis) {
	fmt.Fprintf(out, "updates: %d  mean %.2f  stddev %.2f  range %d..%d\n", a.Updates, a.Mean, a.StdDev, a.Min, a.Max)
	if a.Bins > 1 {
		fmt.Fprintf(out, "uniformity: chi-square %.1f over %d bins\n", a.ChiSquare, a.Bins)
	}
	for _, w := range a.Windows {
		fmt.Fprintf(out, "mode %d (%5d Hz): %5d updates, expected %5d (%+d)\n",
			w.Mode, w.NominalHz, w.Updates, w.Expected, w.Delta)
	}
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
