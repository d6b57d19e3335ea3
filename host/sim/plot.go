package sim

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
)

// PlotOptions select the rendered region and image size.
type PlotOptions struct {
	Width, Height int
	FromUS, ToUS  uint64 // ToUS 0 means end of run
}

const plotMargin = 40

// Plot renders the duty envelope (fraction of full scale) against time as a
// PNG, with a marker and label at every mode switch.
func Plot(w io.Writer, r *Result, opts PlotOptions) error {
	if opts.Width <= 2*plotMargin || opts.Height <= 2*plotMargin {
		return fmt.Errorf("plot size %dx%d too small", opts.Width, opts.Height)
	}
	to := opts.ToUS
	if to == 0 || to > r.EndUS {
		to = r.EndUS
	}
	if to <= opts.FromUS {
		return fmt.Errorf("empty plot range %d..%d us", opts.FromUS, to)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	pw := float64(opts.Width - 2*plotMargin)
	ph := float64(opts.Height - 2*plotMargin)
	x := func(us uint64) float64 {
		return plotMargin + pw*float64(us-opts.FromUS)/float64(to-opts.FromUS)
	}
	y := func(frac float64) float64 {
		return plotMargin + ph*(1-frac)
	}

	// Axes and duty bounds.
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(plotMargin, y(0), plotMargin+pw, y(0))
	dc.DrawLine(plotMargin, y(0), plotMargin, y(1))
	dc.Stroke()
	dc.DrawStringAnchored("duty", plotMargin, plotMargin/2, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f ms", float64(to-opts.FromUS)/1000), plotMargin+pw, y(0)+plotMargin/2, 1, 0.5)

	dc.SetRGB(0.8, 0.8, 0.8)
	dc.SetDash(4, 4)
	for _, b := range []uint8{r.Config.DutyMin, r.Config.DutyMax} {
		dc.DrawLine(plotMargin, y(float64(b)/255), plotMargin+pw, y(float64(b)/255))
	}
	dc.Stroke()

	// Mode switch markers.
	dc.SetRGB(0.85, 0.3, 0.3)
	for _, win := range r.Windows {
		if win.EndUS < opts.FromUS || win.EndUS > to {
			continue
		}
		dc.DrawLine(x(win.EndUS), y(0), x(win.EndUS), y(1))
		dc.Stroke()
	}
	dc.SetDash()
	for _, win := range r.Windows {
		if win.StartUS >= opts.FromUS && win.StartUS < to {
			dc.DrawStringAnchored(fmt.Sprintf("%d Hz", win.NominalHz), x(win.StartUS)+4, y(1)-6, 0, 0)
		}
	}

	// Duty envelope as a step line.
	dc.SetRGB(0.1, 0.3, 0.8)
	started := false
	var prev float64
	for _, s := range r.Samples {
		if s.AtUS < opts.FromUS || s.AtUS > to {
			continue
		}
		frac := float64(s.Raw) / 255
		if !started {
			dc.MoveTo(x(s.AtUS), y(frac))
			started = true
		} else {
			dc.LineTo(x(s.AtUS), y(prev))
			dc.LineTo(x(s.AtUS), y(frac))
		}
		prev = frac
	}
	if started {
		dc.LineTo(x(to), y(prev))
		dc.Stroke()
	}

	return dc.EncodePNG(w)
}
