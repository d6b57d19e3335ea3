package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"varduty/host/monitor"
	"varduty/host/serial"
)

func newMonitorCmd() *cobra.Command {
	var (
		device   string
		baud     int
		switchMS int
	)
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Follow the generator console and check the mode schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			scfg := serial.DefaultConfig(device)
			scfg.Baud = baud
			port, err := serial.Open(scfg)
			// Closed again below to unblock a pending read on interrupt.
			if err != nil {
				return err
			}
			defer port.Close()
			if err := port.Flush(); err != nil {
				log.Debug("flush failed", "err", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				port.Close()
			}()

			m := monitor.New(time.Duration(switchMS)*time.Millisecond, log)
			log.Info("monitoring", "device", device, "baud", baud)
			for ctx.Err() == nil {
				// A read timeout ends one pass with EOF; keep listening.
				if err := m.Run(ctx, port, time.Now, nil); err != nil && ctx.Err() == nil {
					if errors.Is(err, os.ErrClosed) {
						break
					}
					return fmt.Errorf("read %s: %w", device, err)
				}
			}

			printSummary(cmd, m.Summary())
			return nil
		},
	}
	cmd.Flags().StringVarP(&device, "device", "d", "/dev/ttyACM0", "Serial device path")
	cmd.Flags().IntVarP(&baud, "baud", "b", 115200, "Baud rate (ignored for USB CDC)")
	cmd.Flags().IntVar(&switchMS, "switch-ms", 0, "Expected mode switch period in ms (0 = read from banner)")
	return cmd
}

func printSummary(cmd *cobra.Command, s monitor.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "switches:      %d (modes %d)\n", s.Switches, s.Modes)
	fmt.Fprintf(out, "expected:      %v\n", s.Expected)
	fmt.Fprintf(out, "mean period:   %v (stddev %v)\n", s.MeanPeriod, s.StdDev)
	fmt.Fprintf(out, "max drift:     %v\n", s.MaxDrift)
	fmt.Fprintf(out, "out of order:  %d\n", s.OutOfOrder)
	fmt.Fprintf(out, "fault reports: %d\n", s.Faults)
}
