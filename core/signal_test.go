package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPulseSignalerTiming(t *testing.T) {
	clk := &fakeTime{}
	pin := &fakePin{}
	s := NewPulseSignaler(pin, clk, 15000, 15000)

	s.Signal(3)

	want := []bool{true, false, true, false, true, false}
	if len(pin.levels) != len(want) {
		t.Fatalf("levels = %v, want %v", pin.levels, want)
	}
	for i := range want {
		if pin.levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", pin.levels, want)
		}
	}
	// No trailing off-delay after the last pulse.
	if clk.delayed != 75000 {
		t.Errorf("blocked for %d us, want 75000", clk.delayed)
	}
	if s.Duration(3) != clk.delayed {
		t.Errorf("Duration(3) = %d, want %d", s.Duration(3), clk.delayed)
	}
}

func TestPulseSignalerLatencyBound(t *testing.T) {
	s := NewPulseSignaler(&fakePin{}, &fakeTime{}, DefaultPulseUS, DefaultPulseUS)
	for mode := 0; mode < 6; mode++ {
		if d := s.Duration(mode + 1); d > uint64(mode+1)*30000 {
			t.Errorf("mode %d: latency %d us exceeds %d", mode, d, (mode+1)*30000)
		}
	}
}

func TestPulseSignalerZeroCount(t *testing.T) {
	clk := &fakeTime{}
	pin := &fakePin{}
	s := NewPulseSignaler(pin, clk, 10, 10)
	s.Signal(0)
	if len(pin.levels) != 0 || clk.delayed != 0 || s.Duration(0) != 0 {
		t.Errorf("Signal(0) produced output: levels=%v delayed=%d", pin.levels, clk.delayed)
	}
}

func TestAsyncSignalerDropsWhenFull(t *testing.T) {
	rec := &recordSignaler{}
	a := NewAsyncSignaler(rec, 1)

	a.Signal(2)
	a.Signal(3)
	if a.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", a.Dropped())
	}
}

func TestAsyncSignalerRunDelivers(t *testing.T) {
	got := make(chan int, 4)
	a := NewAsyncSignaler(SignalFunc(func(n int) { got <- n }), 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	a.Signal(4)
	a.Signal(5)
	for _, want := range []int{4, 5} {
		select {
		case n := <-got:
			if n != want {
				t.Errorf("delivered %d, want %d", n, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("signal %d not delivered", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
