//go:build linux && !tinygo

package main

import (
	"errors"
	"testing"

	"varduty/errcode"
)

func TestPWMTiming(t *testing.T) {
	testCases := []struct {
		carrierHz uint32
		bits      uint8
		clockHz   uint32
		cycle     uint32
	}{
		{1000, 10, 1_024_000, 1024},
		{25000, 10, 9_600_000, 384},
		{25000, 8, 6_400_000, 256},
	}
	for _, tc := range testCases {
		clk, cycle, err := pwmTiming(tc.carrierHz, tc.bits)
		if err != nil {
			t.Errorf("pwmTiming(%d, %d): %v", tc.carrierHz, tc.bits, err)
			continue
		}
		if clk != tc.clockHz || cycle != tc.cycle {
			t.Errorf("pwmTiming(%d, %d) = %d Hz / %d, want %d Hz / %d",
				tc.carrierHz, tc.bits, clk, cycle, tc.clockHz, tc.cycle)
		}
	}
}

func TestPWMTimingErrors(t *testing.T) {
	if _, _, err := pwmTiming(0, 10); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("zero carrier err = %v", err)
	}
	if _, _, err := pwmTiming(9_000_000, 10); !errors.Is(err, errcode.Unsupported) {
		t.Errorf("fast carrier err = %v", err)
	}
}
