package core

import "testing"

func TestScaleDutyMonotonic(t *testing.T) {
	top := NativeMax(DefaultResolutionBits)
	prev := ScaleDuty(0, top)
	for v := 1; v <= 255; v++ {
		cur := ScaleDuty(uint8(v), top)
		if cur < prev {
			t.Fatalf("ScaleDuty(%d) = %d < ScaleDuty(%d) = %d", v, cur, v-1, prev)
		}
		prev = cur
	}
	if ScaleDuty(DefaultDutyMin, top) >= ScaleDuty(DefaultDutyMax, top) {
		t.Errorf("ScaleDuty(MIN) must be below ScaleDuty(MAX)")
	}
}

func TestScaleDutyValues(t *testing.T) {
	tests := []struct {
		value     uint8
		nativeMax uint32
		want      uint32
	}{
		{0, 1023, 0},
		{255, 1023, 1023},
		{51, 1023, 204},  // 20%
		{204, 1023, 818}, // 80%, truncated
		{128, 255, 128},
		{255, 65535, 65535},
		{1, 100, 0},
	}
	for _, tt := range tests {
		if got := ScaleDuty(tt.value, tt.nativeMax); got != tt.want {
			t.Errorf("ScaleDuty(%d, %d) = %d, want %d", tt.value, tt.nativeMax, got, tt.want)
		}
	}
}

func TestScaleDutyIdempotent(t *testing.T) {
	for v := 0; v <= 255; v++ {
		a := ScaleDuty(uint8(v), 1023)
		b := ScaleDuty(uint8(v), 1023)
		if a != b {
			t.Fatalf("ScaleDuty(%d) not deterministic: %d vs %d", v, a, b)
		}
	}
}

func TestNativeMax(t *testing.T) {
	tests := []struct {
		bits uint8
		want uint32
	}{{1, 1}, {8, 255}, {10, 1023}, {16, 65535}}
	for _, tt := range tests {
		if got := NativeMax(tt.bits); got != tt.want {
			t.Errorf("NativeMax(%d) = %d, want %d", tt.bits, got, tt.want)
		}
	}
}
