// Package sim runs the real controller against a virtual clock so the duty
// sequence and mode schedule can be inspected without hardware.
package sim

import (
	"log/slog"
	"math/rand/v2"

	"varduty/core"
	"varduty/errcode"
)

// Options control a simulation run.
type Options struct {
	Config     core.Config
	DurationUS uint64

	// LoopCostUS is the virtual time consumed by each loop iteration.
	LoopCostUS uint32
	// YieldCostUS is the virtual time consumed by each cooperative yield.
	YieldCostUS uint32

	// Seed makes the duty table reproducible.
	Seed uint64

	// Indicator simulates a blocking feedback LED so its cost shows up on
	// the timeline.
	Indicator bool

	Log *slog.Logger
}

// Sample is one applied duty update.
type Sample struct {
	AtUS uint64
	Raw  uint8
	Duty uint32
	Mode int
}

// Window is one mode's residence between two switches.
type Window struct {
	Mode      int
	NominalHz uint32
	StartUS   uint64
	EndUS     uint64
	Updates   uint32
}

// Result holds everything recorded during a run.
type Result struct {
	Config    core.Config
	NativeMax uint32
	Samples   []Sample
	Windows   []Window
	Stats     core.Stats
	Pulses    int // indicator pulses, when simulated
	EndUS     uint64
}

type vclock struct {
	now       uint64
	yieldCost uint32
}

func (c *vclock) NowMicros() uint64     { return c.now }
func (c *vclock) DelayMicros(us uint32) { c.now += uint64(us) }
func (c *vclock) Yield()                { c.now += uint64(c.yieldCost) }

type nullPWM struct{ bits uint8 }

func (p *nullPWM) Configure(_ uint32, bits uint8) (uint32, error) {
	p.bits = bits
	return core.NativeMax(bits), nil
}
func (p *nullPWM) SetDuty(uint32) error { return nil }
func (p *nullPWM) Commit() error        { return nil }

type pcg struct{ r *rand.Rand }

func (p pcg) Uint32() uint32 { return p.r.Uint32() }

type countingPin struct {
	level  bool
	rising int
}

func (p *countingPin) Set(high bool) {
	if high && !p.level {
		p.rising++
	}
	p.level = high
}

// Run simulates opts.DurationUS of operation.
func Run(opts Options) (*Result, error) {
	if opts.DurationUS == 0 {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "sim", Msg: "duration must be positive"}
	}
	if opts.LoopCostUS == 0 {
		opts.LoopCostUS = 1
	}

	clk := &vclock{yieldCost: opts.YieldCostUS}
	hal := core.HAL{
		Clock:   clk,
		PWM:     &nullPWM{},
		Entropy: pcg{rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))},
		Delay:   clk,
	}
	var pin *countingPin
	if opts.Indicator {
		pin = &countingPin{}
		hal.Indicator = pin
	}

	ctl, err := core.NewController(opts.Config, hal, opts.Log)
	if err != nil {
		return nil, err
	}
	if err := ctl.Init(); err != nil {
		return nil, err
	}

	cfg := ctl.Config()
	res := &Result{Config: cfg, NativeMax: ctl.NativeMax()}
	win := Window{Mode: ctl.Mode(), NominalHz: cfg.Modes[ctl.Mode()].NominalHz, StartUS: clk.now}

	for clk.now < opts.DurationUS {
		mode := ctl.Mode()
		r := ctl.Step()
		if r.DutyApplied {
			res.Samples = append(res.Samples, Sample{AtUS: r.Now, Raw: r.Raw, Duty: r.Duty, Mode: mode})
		}
		if r.ModeChanged {
			win.EndUS, win.Updates = r.Now, r.PrevWindow
			res.Windows = append(res.Windows, win)
			win = Window{Mode: r.Mode, NominalHz: cfg.Modes[r.Mode].NominalHz, StartUS: r.Now}
		}
		clk.now += uint64(opts.LoopCostUS)
	}

	res.Stats = ctl.Stats()
	res.EndUS = clk.now
	if pin != nil {
		res.Pulses = pin.rising
	}
	return res, nil
}

// RawValues returns the table values in playback order.
func (r *Result) RawValues() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Raw)
	}
	return out
}
