package board

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"testing"
)

type fakeStrip struct {
	writes []color.RGBA
	err    error
}

func (f *fakeStrip) WriteColors(buf []color.RGBA) error {
	f.writes = append(f.writes, buf[0])
	return f.err
}

func TestPixelIndicatorColors(t *testing.T) {
	strip := &fakeStrip{}
	green := color.RGBA{G: 0x40}
	p := NewPixelIndicator(strip, green, nil)
	p.Set(true)
	p.Set(false)

	want := []color.RGBA{{}, green, {}}
	if len(strip.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", strip.writes, want)
	}
	for i := range want {
		if strip.writes[i] != want[i] {
			t.Errorf("write %d = %v, want %v", i, strip.writes[i], want[i])
		}
	}
	if p.Failures() != 0 {
		t.Errorf("failures = %d", p.Failures())
	}
}

func TestPixelIndicatorWriteErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	strip := &fakeStrip{err: errors.New("bus stuck")}

	p := NewPixelIndicator(strip, color.RGBA{R: 1}, log)
	for i := 0; i < 4; i++ {
		p.Set(i%2 == 0)
	}
	if p.Failures() != 5 {
		t.Errorf("failures = %d, want 5", p.Failures())
	}
	out := buf.String()
	if n := strings.Count(out, "status pixel write failed"); n != 1 {
		t.Errorf("warnings logged = %d, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "bus stuck") {
		t.Errorf("cause missing from log: %s", out)
	}
}
