package serial

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tarm/serial"

	"varduty/errcode"
)

type fakePort struct {
	strings.Reader
	closes  int
	flushes int
}

func (f *fakePort) Write(b []byte) (int, error) { return len(b), nil }
func (f *fakePort) Flush() error                { f.flushes++; return nil }
func (f *fakePort) Close() error {
	f.closes++
	if f.closes > 1 {
		return errors.New("already closed")
	}
	return nil
}

func withFakePort(t *testing.T, p *fakePort, got **serial.Config) {
	t.Helper()
	prev := openRaw
	openRaw = func(c *serial.Config) (rawPort, error) {
		*got = c
		return p, nil
	}
	t.Cleanup(func() { openRaw = prev })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" || cfg.Baud != 115200 || cfg.ReadTimeout != 500*time.Millisecond {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no device", Config{Baud: 115200}},
		{"zero baud", Config{Device: "/dev/ttyUSB0"}},
		{"negative timeout", Config{Device: "/dev/ttyUSB0", Baud: 9600, ReadTimeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, errcode.InvalidConfig) {
				t.Errorf("Validate() = %v, want invalid_config", err)
			}
			if _, err := Open(tt.cfg); !errors.Is(err, errcode.InvalidConfig) {
				t.Errorf("Open() = %v, want invalid_config", err)
			}
		})
	}
}

func TestOpenPassesSettings(t *testing.T) {
	fake := &fakePort{}
	var got *serial.Config
	withFakePort(t, fake, &got)

	c, err := Open(Config{Device: "/dev/ttyACM1", Baud: 57600, ReadTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "/dev/ttyACM1" || got.Baud != 57600 || got.ReadTimeout != time.Second {
		t.Errorf("tarm config = %+v", got)
	}
	if c.Device() != "/dev/ttyACM1" {
		t.Errorf("Device() = %q", c.Device())
	}
	if err := c.Flush(); err != nil || fake.flushes != 1 {
		t.Errorf("Flush() = %v, flushes %d", err, fake.flushes)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	fake := &fakePort{}
	var got *serial.Config
	withFakePort(t, fake, &got)

	c, err := Open(DefaultConfig("/dev/ttyACM0"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := c.Close(); err != nil {
			t.Errorf("Close() #%d = %v", i+1, err)
		}
	}
	if fake.closes != 1 {
		t.Errorf("underlying closes = %d, want 1", fake.closes)
	}
}

func TestOpenWrapsDriverError(t *testing.T) {
	prev := openRaw
	openRaw = func(*serial.Config) (rawPort, error) { return nil, errors.New("no such file") }
	t.Cleanup(func() { openRaw = prev })

	if _, err := Open(DefaultConfig("/dev/missing")); !errors.Is(err, errcode.PeripheralInit) {
		t.Errorf("Open() = %v, want peripheral_init", err)
	}
}
