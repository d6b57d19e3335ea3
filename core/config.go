package core

import (
	"varduty/errcode"
	"varduty/x/mathx"
)

// Mode is one modulation-frequency step.
type Mode struct {
	NominalHz  uint32 `yaml:"nominal_hz" json:"nominal_hz"`   // reported to the operator
	IntervalUS uint32 `yaml:"interval_us" json:"interval_us"` // time between duty refreshes
}

// Config is the immutable parameter set of a Controller.
// Build it once at startup and validate it before use.
type Config struct {
	CarrierHz      uint32 `yaml:"carrier_hz" json:"carrier_hz"`
	ResolutionBits uint8  `yaml:"resolution_bits" json:"resolution_bits"`

	TableSize int   `yaml:"table_size" json:"table_size"`
	DutyMin   uint8 `yaml:"duty_min" json:"duty_min"`
	DutyMax   uint8 `yaml:"duty_max" json:"duty_max"`

	Modes        []Mode `yaml:"modes" json:"modes"`
	ModeSwitchUS uint32 `yaml:"mode_switch_us" json:"mode_switch_us"`

	// YieldEvery is the number of loop iterations between cooperative yields.
	YieldEvery uint32 `yaml:"yield_every" json:"yield_every"`

	PulseOnUS     uint32 `yaml:"pulse_on_us" json:"pulse_on_us"`
	PulseOffUS    uint32 `yaml:"pulse_off_us" json:"pulse_off_us"`
	AsyncFeedback bool   `yaml:"async_feedback" json:"async_feedback"`

	// Pin assignments are consumed by the target, not by the core.
	// NoPin leaves the choice to the target's board profile.
	OutputPin    int `yaml:"output_pin" json:"output_pin"`
	IndicatorPin int `yaml:"indicator_pin" json:"indicator_pin"`
}

// Reference values.
const (
	DefaultCarrierHz      = 25000
	DefaultResolutionBits = 10
	DefaultTableSize      = 4096
	DefaultDutyMin        = 51  // 20% of 255
	DefaultDutyMax        = 204 // 80% of 255
	DefaultModeSwitchUS   = 200000
	DefaultYieldEvery     = 100
	DefaultPulseUS        = 15000

	NoPin = -1
)

// DefaultModes returns the 1..6 kHz step table.
func DefaultModes() []Mode {
	return []Mode{
		{NominalHz: 1000, IntervalUS: 1000},
		{NominalHz: 2000, IntervalUS: 500},
		{NominalHz: 3000, IntervalUS: 333},
		{NominalHz: 4000, IntervalUS: 250},
		{NominalHz: 5000, IntervalUS: 200},
		{NominalHz: 6000, IntervalUS: 166},
	}
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		CarrierHz:      DefaultCarrierHz,
		ResolutionBits: DefaultResolutionBits,
		TableSize:      DefaultTableSize,
		DutyMin:        DefaultDutyMin,
		DutyMax:        DefaultDutyMax,
		Modes:          DefaultModes(),
		ModeSwitchUS:   DefaultModeSwitchUS,
		YieldEvery:     DefaultYieldEvery,
		PulseOnUS:      DefaultPulseUS,
		PulseOffUS:     DefaultPulseUS,
		OutputPin:      NoPin,
		IndicatorPin:   NoPin,
	}
}

// Validate checks the configuration once, before the loop starts.
func (c Config) Validate() error {
	switch {
	case c.CarrierHz == 0:
		return invalid("carrier frequency must be positive")
	case !mathx.Between(c.ResolutionBits, 1, 16):
		return invalid("resolution must be 1..16 bits")
	case c.TableSize < 1:
		return invalid("table size must be at least 1")
	case c.DutyMin > c.DutyMax:
		return invalid("duty min exceeds duty max")
	case len(c.Modes) == 0:
		return invalid("at least one mode is required")
	case c.ModeSwitchUS == 0:
		return invalid("mode switch interval must be positive")
	case c.YieldEvery == 0:
		return invalid("yield cadence must be at least 1")
	}
	for _, m := range c.Modes {
		if m.IntervalUS == 0 {
			return invalid("mode interval must be positive")
		}
	}
	if c.FastestIntervalUS() >= c.ModeSwitchUS {
		return invalid("fastest mode interval must be shorter than the mode switch interval")
	}
	return nil
}

// FastestIntervalUS is the tightest duty update interval across all modes.
func (c Config) FastestIntervalUS() uint32 {
	iv := make([]uint32, len(c.Modes))
	for i, m := range c.Modes {
		iv[i] = m.IntervalUS
	}
	return mathx.MinOf(iv)
}

// Frequencies lists the nominal frequency of every mode, in order.
func (c Config) Frequencies() []uint32 {
	f := make([]uint32, len(c.Modes))
	for i, m := range c.Modes {
		f[i] = m.NominalHz
	}
	return f
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: msg}
}

func missing(what string) error {
	return &errcode.E{C: errcode.MissingHAL, Op: "hal", Msg: what + " not provided"}
}
