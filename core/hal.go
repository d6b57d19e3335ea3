package core

// Clock is a free-running monotonic microsecond counter.
type Clock interface {
	NowMicros() uint64
}

// PWMOutput is the abstract PWM channel the controller drives.
// Platform-specific implementations handle the actual peripheral.
type PWMOutput interface {
	// Configure sets up the carrier frequency and requested duty resolution.
	// Returns the native duty maximum actually in use (e.g. 1023 for 10 bits),
	// which may differ from the request when the hardware adjusts its counter.
	Configure(carrierHz uint32, resolutionBits uint8) (uint32, error)

	// SetDuty stages a duty value in native units (0..native max).
	SetDuty(value uint32) error

	// Commit latches the staged duty value into the running output.
	Commit() error
}

// DigitalOutput is a single push-pull output pin.
type DigitalOutput interface {
	Set(high bool)
}

// EntropySource returns 32 bits from a hardware or cryptographic RNG.
type EntropySource interface {
	Uint32() uint32
}

// Delayer provides the two suspension primitives the loop uses.
type Delayer interface {
	// DelayMicros blocks for at least us microseconds.
	DelayMicros(us uint32)

	// Yield hands control to the scheduler for a short, bounded time.
	Yield()
}

// HAL bundles the hardware collaborators of a Controller.
type HAL struct {
	Clock   Clock
	PWM     PWMOutput
	Entropy EntropySource
	Delay   Delayer

	// Indicator is optional; without it feedback pulses are skipped.
	Indicator DigitalOutput
}

func (h HAL) validate() error {
	switch {
	case h.Clock == nil:
		return missing("clock")
	case h.PWM == nil:
		return missing("pwm")
	case h.Entropy == nil:
		return missing("entropy")
	case h.Delay == nil:
		return missing("delay")
	}
	return nil
}
