//go:build rp2040 || rp2350

package main

import (
	"machine"

	"varduty/errcode"
	"varduty/x/mathx"
)

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmOutput drives one pin from its hardware PWM slice.
// The compare register is double-buffered and latches at counter wrap, so
// a staged value never produces a torn period.
type pwmOutput struct {
	pin     machine.Pin
	slice   pwmPeripheral
	channel uint8
	top     uint32
	staged  uint32
}

func newPWMOutput(pin machine.Pin) *pwmOutput {
	// RP2040: GPIO pin N maps to:
	//   Slice: (N >> 1) & 0x7  (divide by 2, mod 8)
	//   Channel: N & 1          (even=A, odd=B)
	return &pwmOutput{pin: pin, slice: getPWMPeripheral(uint8((uint32(pin) >> 1) & 0x7))}
}

// Configure sets the carrier period. The counter top follows from the system
// clock, so the requested resolution is advisory and the real maximum is
// returned.
func (p *pwmOutput) Configure(carrierHz uint32, resolutionBits uint8) (uint32, error) {
	if carrierHz == 0 {
		return 0, &errcode.E{C: errcode.InvalidConfig, Op: "pwm", Msg: "zero carrier"}
	}
	period := uint64(1e9) / uint64(carrierHz)
	if err := p.slice.Configure(machine.PWMConfig{Period: period}); err != nil {
		return 0, err
	}
	ch, err := p.slice.Channel(p.pin)
	if err != nil {
		return 0, err
	}
	p.channel = ch
	p.top = p.slice.Top()
	p.slice.Set(p.channel, 0)
	return p.top, nil
}

func (p *pwmOutput) SetDuty(value uint32) error {
	p.staged = mathx.Clamp(value, 0, p.top)
	return nil
}

func (p *pwmOutput) Commit() error {
	p.slice.Set(p.channel, p.staged)
	return nil
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
// RP2040 has 8 PWM slices: PWM0-PWM7
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return machine.PWM0
	}
}
