//go:build rp2040 || rp2350

package main

import (
	"context"
	"image/color"
	"log/slog"
	"machine"
	"time"

	"varduty/core"
	"varduty/errcode"
	"varduty/targets/board"
	"varduty/targets/pio"
)

// Build-time settings. Override with -ldflags, e.g.
// -ldflags "-X main.indicatorKind=pio -X main.asyncFeedback=true".
var (
	// indicatorKind selects the feedback hardware: "gpio", "pio" or "ws2812".
	indicatorKind = "gpio"
	// asyncFeedback queues indicator bursts to a goroutine instead of
	// blocking the generator loop.
	asyncFeedback = "false"
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	_ = InitUSB()
	log := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := board.Pico.Apply(core.DefaultConfig())
	// The LED moves on the Pico W and other variants.
	cfg.IndicatorPin = int(machine.LED)
	cfg, err := board.BuildOptions{Indicator: indicatorKind, AsyncFeedback: asyncFeedback}.Apply(cfg)
	if err != nil {
		fail(log, "build options", err, nil)
	}
	log.Info("boot", "mcu", mcuName, "cpu_hz", machine.CPUFrequency(),
		"output_pin", cfg.OutputPin, "indicator", indicatorKind, "async", cfg.AsyncFeedback)

	clk := hwClock{}
	hal := core.HAL{
		Clock:   clk,
		PWM:     newPWMOutput(machine.Pin(cfg.OutputPin)),
		Entropy: rngSource{},
		Delay:   spinDelay{clk: clk},
	}

	indicatorPin := machine.Pin(cfg.IndicatorPin)
	var (
		alloc pio.Allocator
		train *pio.PulseTrain
	)
	switch indicatorKind {
	case board.IndicatorPIO:
		pioNum, smNum, err := alloc.Allocate()
		if err == nil {
			train, err = pio.NewPulseTrain(pioNum, smNum, indicatorPin, cfg.PulseOnUS)
			if err != nil {
				alloc.Release(pioNum, smNum)
			}
		}
		if err != nil {
			log.Warn("pio indicator unavailable, using gpio", "code", errcode.Of(err), "err", err)
			train = nil
			hal.Indicator = newGPIOIndicator(indicatorPin)
		}
	case board.IndicatorWS2812:
		hal.Indicator = newPixelIndicator(indicatorPin, color.RGBA{G: 0x40}, log)
	default:
		hal.Indicator = newGPIOIndicator(indicatorPin)
	}

	ctl, err := core.NewController(cfg, hal, log)
	if err != nil {
		fail(log, "controller setup", err, train)
	}
	switch {
	case train != nil:
		ctl.SetSignaler(train)
	case cfg.AsyncFeedback:
		// The queued goroutine must sleep between pulses, not spin.
		ctl.SetSignaler(core.NewPulseSignaler(hal.Indicator, sleepDelay{}, cfg.PulseOnUS, cfg.PulseOffUS))
	}
	if async, ok := ctl.AsyncFeedback(); ok {
		go async.Run(context.Background())
	}

	if err := ctl.Init(); err != nil {
		fail(log, "init", err, train)
	}
	ctl.Run()
}

// fail reports a fatal startup error and fast-blinks the onboard LED
// forever so the condition is visible without a console. A running pulse
// train is stopped first so it does not fight the blink for the pin.
func fail(log *slog.Logger, what string, err error, train *pio.PulseTrain) {
	if train != nil {
		train.Stop()
	}
	pin := machine.LED
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		log.Error("fatal", "stage", what, "code", errcode.Of(err), "err", err)
		for i := 0; i < 10; i++ {
			pin.High()
			time.Sleep(100 * time.Millisecond)
			pin.Low()
			time.Sleep(100 * time.Millisecond)
		}
	}
}
