package core

import (
	"context"
	"sync/atomic"
)

// Signaler emits a count-coded indicator sequence.
type Signaler interface {
	Signal(count int)
}

// SignalFunc adapts a plain function to Signaler.
type SignalFunc func(count int)

func (f SignalFunc) Signal(count int) { f(count) }

// PulseSignaler blinks a digital output synchronously. Each pulse is on for
// onUS then off for offUS; the off time after the final pulse is skipped.
// A call blocks for count*on + (count-1)*off microseconds.
type PulseSignaler struct {
	pin   DigitalOutput
	delay Delayer
	onUS  uint32
	offUS uint32
}

// NewPulseSignaler returns a blocking signaler on pin.
func NewPulseSignaler(pin DigitalOutput, delay Delayer, onUS, offUS uint32) *PulseSignaler {
	return &PulseSignaler{pin: pin, delay: delay, onUS: onUS, offUS: offUS}
}

func (p *PulseSignaler) Signal(count int) {
	for i := 0; i < count; i++ {
		p.pin.Set(true)
		p.delay.DelayMicros(p.onUS)
		p.pin.Set(false)
		if i < count-1 {
			p.delay.DelayMicros(p.offUS)
		}
	}
}

// Duration returns how long Signal(count) blocks, in µs.
func (p *PulseSignaler) Duration(count int) uint64 {
	if count <= 0 {
		return 0
	}
	return uint64(count)*uint64(p.onUS) + uint64(count-1)*uint64(p.offUS)
}

// AsyncSignaler queues signal requests for a separate goroutine so the
// control loop never blocks on indicator output. A request arriving while
// the queue is full is dropped and counted.
type AsyncSignaler struct {
	next    Signaler
	queue   chan int
	dropped atomic.Uint32
}

// NewAsyncSignaler wraps next with a queue of the given depth (minimum 1).
func NewAsyncSignaler(next Signaler, depth int) *AsyncSignaler {
	if depth < 1 {
		depth = 1
	}
	return &AsyncSignaler{next: next, queue: make(chan int, depth)}
}

// Signal enqueues count without blocking.
func (a *AsyncSignaler) Signal(count int) {
	select {
	case a.queue <- count:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns the number of requests discarded on a full queue.
func (a *AsyncSignaler) Dropped() uint32 { return a.dropped.Load() }

// Run drains the queue until ctx is cancelled. On the device it runs in its
// own goroutine and only gets the CPU while the control loop yields.
func (a *AsyncSignaler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-a.queue:
			a.next.Signal(n)
		}
	}
}
