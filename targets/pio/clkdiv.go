package pio

import "varduty/errcode"

// CyclesPerPhase is the number of state machine cycles spent in each on or
// off phase of the pulse program.
const CyclesPerPhase = 64

// ClockDivider returns the 16.8 fixed-point divider that makes one phase of
// the pulse program last phaseUS at the given system clock.
func ClockDivider(cpuHz, phaseUS uint32) (whole uint16, frac uint8, err error) {
	// div = cpuHz * phaseUS / (1e6 * CyclesPerPhase), scaled by 256
	div256 := uint64(cpuHz) * uint64(phaseUS) * 256 / (1_000_000 * CyclesPerPhase)
	if div256 < 256 || div256 >= 1<<24 {
		return 0, 0, &errcode.E{C: errcode.Unsupported, Op: "pio clkdiv", Msg: "phase length out of range"}
	}
	return uint16(div256 >> 8), uint8(div256), nil
}

// PhaseMicros is the inverse of ClockDivider, used to report the pulse length
// actually produced.
func PhaseMicros(cpuHz uint32, whole uint16, frac uint8) float64 {
	div := float64(whole) + float64(frac)/256
	return div * CyclesPerPhase * 1e6 / float64(cpuHz)
}
