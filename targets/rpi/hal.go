//go:build linux && !tinygo

package main

import (
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"time"

	"varduty/core"
)

// monoClock counts µs since process start on the monotonic clock.
type monoClock struct{ start time.Time }

func (c monoClock) NowMicros() uint64 { return uint64(time.Since(c.start).Microseconds()) }

type osDelay struct{}

func (osDelay) DelayMicros(us uint32) { time.Sleep(core.MicrosToDuration(us)) }
func (osDelay) Yield()                { runtime.Gosched() }

// kernelEntropy reads the kernel CSPRNG.
type kernelEntropy struct{}

func (kernelEntropy) Uint32() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(b[:])
}
