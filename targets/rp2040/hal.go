//go:build rp2040 || rp2350

package main

import (
	"image/color"
	"log/slog"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"varduty/targets/board"
)

// rngSource draws from the ring-oscillator RNG.
type rngSource struct{}

func (rngSource) Uint32() uint32 {
	v, err := machine.GetRNG()
	if err != nil {
		// GetRNG does not fail on this chip; keep the table well-defined anyway.
		return 0
	}
	return v
}

// gpioIndicator is a plain LED on a push-pull pin.
type gpioIndicator struct{ pin machine.Pin }

func newGPIOIndicator(pin machine.Pin) gpioIndicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return gpioIndicator{pin: pin}
}

func (g gpioIndicator) Set(high bool) { g.pin.Set(high) }

// newPixelIndicator lights a single WS2812 status pixel for boards that
// have no discrete LED.
func newPixelIndicator(pin machine.Pin, on color.RGBA, log *slog.Logger) *board.PixelIndicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return board.NewPixelIndicator(ws2812.New(pin), on, log)
}
