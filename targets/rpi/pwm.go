//go:build linux && !tinygo

package main

import (
	"github.com/stianeikeland/go-rpio/v4"

	"varduty/core"
	"varduty/errcode"
	"varduty/x/mathx"
)

// maxPWMClockHz is the highest PWM clock go-rpio can program.
const maxPWMClockHz = 9_600_000

// pwmTiming picks the PWM clock and cycle length for a carrier. The cycle
// is 2^bits when the clock allows it and is shortened otherwise; the
// returned native maximum is the cycle length.
func pwmTiming(carrierHz uint32, bits uint8) (clockHz, cycle uint32, err error) {
	if carrierHz == 0 {
		return 0, 0, &errcode.E{C: errcode.InvalidConfig, Op: "pwm", Msg: "zero carrier"}
	}
	cycle = core.NativeMax(bits) + 1
	if uint64(carrierHz)*uint64(cycle) > maxPWMClockHz {
		cycle = maxPWMClockHz / carrierHz
	}
	if cycle < 2 {
		return 0, 0, &errcode.E{C: errcode.Unsupported, Op: "pwm", Msg: "carrier too fast for the PWM clock"}
	}
	return carrierHz * cycle, cycle, nil
}

// rpioPWM drives one hardware PWM pin (GPIO 12, 13, 18 or 19).
type rpioPWM struct {
	pin    rpio.Pin
	cycle  uint32
	staged uint32
}

func (p *rpioPWM) Configure(carrierHz uint32, bits uint8) (uint32, error) {
	clockHz, cycle, err := pwmTiming(carrierHz, bits)
	if err != nil {
		return 0, err
	}
	p.pin.Mode(rpio.Pwm)
	p.pin.Freq(int(clockHz))
	p.cycle = cycle
	p.pin.DutyCycleWithPwmMode(0, cycle, rpio.MarkSpace)
	return cycle, nil
}

func (p *rpioPWM) SetDuty(v uint32) error {
	p.staged = mathx.Clamp(v, 0, p.cycle)
	return nil
}

func (p *rpioPWM) Commit() error {
	p.pin.DutyCycleWithPwmMode(p.staged, p.cycle, rpio.MarkSpace)
	return nil
}

// rpioPin is a GPIO output.
type rpioPin struct{ pin rpio.Pin }

func newRPIOPin(n int) rpioPin {
	p := rpio.Pin(n)
	p.Output()
	p.Low()
	return rpioPin{pin: p}
}

func (p rpioPin) Set(high bool) {
	if high {
		p.pin.High()
	} else {
		p.pin.Low()
	}
}
