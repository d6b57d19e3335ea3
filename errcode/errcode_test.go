package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	cause := errors.New("bus fault")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", InvalidConfig, InvalidConfig},
		{"wrapped E", &E{C: PeripheralInit, Op: "pwm", Err: cause}, PeripheralInit},
		{"plain error", cause, Error},
	}
	for _, tt := range tests {
		if got := Of(tt.err); got != tt.want {
			t.Errorf("%s: Of() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWrapUnwrapAndIs(t *testing.T) {
	cause := errors.New("slice busy")
	err := Wrap(PeripheralInit, "pwm configure", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if !errors.Is(err, PeripheralInit) {
		t.Errorf("errors.Is(err, PeripheralInit) = false, want true")
	}
	if errors.Is(err, InvalidConfig) {
		t.Errorf("errors.Is(err, InvalidConfig) = true, want false")
	}

	outer := fmt.Errorf("init: %w", err)
	if Of(outer) != Error {
		// Of does not unwrap fmt wrappers; callers use errors.As for that.
		t.Errorf("Of(fmt-wrapped) = %q, want %q", Of(outer), Error)
	}
	var e *E
	if !errors.As(outer, &e) || e.Code() != PeripheralInit {
		t.Errorf("errors.As did not recover *E with PeripheralInit")
	}

	if Wrap(Error, "noop", nil) != nil {
		t.Errorf("Wrap(nil) should stay nil")
	}
}

func TestEError(t *testing.T) {
	e := &E{C: InvalidConfig, Op: "config", Msg: "duty min exceeds max"}
	want := "config: invalid_config: duty min exceeds max"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
