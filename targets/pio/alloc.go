package pio

import "varduty/errcode"

// Allocator hands out PIO state machines.
// RP2040/RP2350 has 2 PIO blocks (PIO0, PIO1) with 4 state machines each
type Allocator struct {
	used    [2][4]bool // [pioNum][smNum]
	nextPIO uint8
	nextSM  uint8
}

// Allocate returns a free (pioNum, smNum) pair, scanning round-robin from
// the slot after the previous allocation.
func (a *Allocator) Allocate() (uint8, uint8, error) {
	for i := 0; i < 8; i++ { // 2 PIO × 4 SM = 8 total
		pioNum := a.nextPIO
		smNum := a.nextSM

		a.nextSM++
		if a.nextSM >= 4 {
			a.nextSM = 0
			a.nextPIO = (a.nextPIO + 1) % 2
		}

		if !a.used[pioNum][smNum] {
			a.used[pioNum][smNum] = true
			return pioNum, smNum, nil
		}
	}
	return 0, 0, &errcode.E{C: errcode.PeripheralInit, Op: "pio", Msg: "no free state machine"}
}

// Release returns a slot to the pool.
func (a *Allocator) Release(pioNum, smNum uint8) {
	a.used[pioNum&1][smNum&3] = false
}
