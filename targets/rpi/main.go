//go:build linux && !tinygo

// Command varduty-rpi runs the generator on a Raspberry Pi hardware PWM pin.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stianeikeland/go-rpio/v4"

	"varduty/core"
	"varduty/errcode"
	"varduty/host/config"
	"varduty/targets/board"
)

func main() {
	var (
		configPath string
		verbose    bool
		outputPin  int
		ledPin     int
	)
	root := &cobra.Command{
		Use:          "varduty-rpi",
		Short:        "Variable duty generator on Raspberry Pi hardware PWM",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			cfg, err := config.LoadOver(configPath, board.RaspberryPi.Apply(core.DefaultConfig()))
			if err != nil {
				log.Error("config", "code", errcode.Of(err), "err", err)
				return err
			}
			if cmd.Flags().Changed("pin") {
				cfg.OutputPin = outputPin
			}
			if cmd.Flags().Changed("led") {
				cfg.IndicatorPin = ledPin
			}
			if !board.RaspberryPi.CanPWM(cfg.OutputPin) {
				log.Warn("output pin has no hardware PWM function", "pin", cfg.OutputPin)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}
	f := root.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML or JSON generator config")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	f.IntVar(&outputPin, "pin", board.RaspberryPi.OutputPin, "BCM number of the PWM output pin, overriding the config")
	f.IntVar(&ledPin, "led", core.NoPin, "BCM number of the indicator LED, overriding the config (-1 disables)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg core.Config, log *slog.Logger) error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("open gpio: %w", err)
	}
	defer rpio.Close()

	pwm := &rpioPWM{pin: rpio.Pin(cfg.OutputPin)}
	hal := core.HAL{
		Clock:   monoClock{start: time.Now()},
		PWM:     pwm,
		Entropy: kernelEntropy{},
		Delay:   osDelay{},
	}
	if cfg.IndicatorPin >= 0 {
		hal.Indicator = newRPIOPin(cfg.IndicatorPin)
	}

	ctl, err := core.NewController(cfg, hal, log)
	if err != nil {
		log.Error("controller setup", "code", errcode.Of(err), "err", err)
		return err
	}
	if async, ok := ctl.AsyncFeedback(); ok {
		go async.Run(ctx)
	}
	if err := ctl.Init(); err != nil {
		return err
	}

	for ctx.Err() == nil {
		ctl.Step()
	}

	st := ctl.Stats()
	log.Info("stopping", "updates", st.DutyUpdates, "switches", st.ModeSwitches, "faults", st.Faults)
	pwm.SetDuty(0)
	return pwm.Commit()
}
