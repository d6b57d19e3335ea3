//go:build rp2040 || rp2350

package main

import (
	"runtime"
	"time"

	"varduty/core"
)

// hwClock reads the free-running 1 MHz system timer.
type hwClock struct{}

// NowMicros reads the full 64-bit timer. High is read before and after low
// to detect a carry between the two reads.
func (hwClock) NowMicros() uint64 {
	for {
		high1 := timerRawH.Get()
		low := timerRawL.Get()
		high2 := timerRawH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// spinDelay busy-waits on the timer. It is used from the control loop where
// giving up the CPU would let other goroutines overrun a deadline.
type spinDelay struct{ clk hwClock }

func (d spinDelay) DelayMicros(us uint32) {
	start := d.clk.NowMicros()
	for d.clk.NowMicros()-start < uint64(us) {
	}
}

func (spinDelay) Yield() { runtime.Gosched() }

// sleepDelay parks the calling goroutine. The queued feedback goroutine
// uses it so the control loop keeps running while an LED pulse is held.
type sleepDelay struct{}

func (sleepDelay) DelayMicros(us uint32) { time.Sleep(core.MicrosToDuration(us)) }

func (sleepDelay) Yield() { runtime.Gosched() }
