package board

import (
	"image/color"
	"log/slog"
)

// ColorWriter is satisfied by ws2812.Device.
type ColorWriter interface {
	WriteColors(buf []color.RGBA) error
}

// PixelIndicator drives a single addressable status pixel as an on/off
// indicator. Write errors are counted; the first one is logged.
type PixelIndicator struct {
	w        ColorWriter
	log      *slog.Logger
	on       [1]color.RGBA
	off      [1]color.RGBA
	failures uint32
}

// NewPixelIndicator returns an indicator that shows on when set and black
// otherwise. The pixel starts dark.
func NewPixelIndicator(w ColorWriter, on color.RGBA, log *slog.Logger) *PixelIndicator {
	if log == nil {
		log = slog.Default()
	}
	p := &PixelIndicator{w: w, log: log}
	p.on[0] = on
	p.Set(false)
	return p
}

func (p *PixelIndicator) Set(high bool) {
	buf := p.off[:]
	if high {
		buf = p.on[:]
	}
	if err := p.w.WriteColors(buf); err != nil {
		p.failures++
		if p.failures == 1 {
			p.log.Warn("status pixel write failed", "err", err)
		}
	}
}

// Failures returns the number of failed pixel writes.
func (p *PixelIndicator) Failures() uint32 { return p.failures }
