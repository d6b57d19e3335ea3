// Package board holds the pin assignments of each supported target.
package board

import "varduty/core"

// Profile names the output and indicator pins of one board. IndicatorPin
// is core.NoPin when the board has no safe default LED.
type Profile struct {
	Name         string
	OutputPin    int
	IndicatorPin int

	// PWMPins lists the pins that can carry hardware PWM.
	PWMPins []int
}

// Pico: GP16 is the first free PWM pin (slice 0, channel A) clear of the
// UART0 console and the onboard LED. The indicator is the onboard LED;
// the firmware substitutes machine.LED, which moves on the Pico W.
var Pico = Profile{
	Name:         "pico",
	OutputPin:    16,
	IndicatorPin: 25,
	PWMPins:      rp2040PWMPins(),
}

// RaspberryPi: BCM18 is PWM0 on the 40-pin header. There is no header LED,
// so feedback stays off unless a pin is given explicitly.
var RaspberryPi = Profile{
	Name:         "rpi",
	OutputPin:    18,
	IndicatorPin: core.NoPin,
	PWMPins:      []int{12, 13, 18, 19},
}

// Apply fills the pins cfg leaves unset.
func (p Profile) Apply(cfg core.Config) core.Config {
	if cfg.OutputPin == core.NoPin {
		cfg.OutputPin = p.OutputPin
	}
	if cfg.IndicatorPin == core.NoPin {
		cfg.IndicatorPin = p.IndicatorPin
	}
	return cfg
}

// CanPWM reports whether pin has a hardware PWM function.
func (p Profile) CanPWM(pin int) bool {
	for _, x := range p.PWMPins {
		if x == pin {
			return true
		}
	}
	return false
}

func rp2040PWMPins() []int {
	// Every GPIO 0..29 maps to a PWM slice.
	pins := make([]int, 30)
	for i := range pins {
		pins[i] = i
	}
	return pins
}
