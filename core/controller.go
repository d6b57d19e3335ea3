package core

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"varduty/errcode"
)

// Stats are running counters kept by the controller. They are only touched
// from the loop and need no locking.
type Stats struct {
	Iterations   uint64
	DutyUpdates  uint64
	ModeSwitches uint64
	Yields       uint64

	// WindowUpdates counts duty updates since the last mode switch.
	WindowUpdates uint32

	// Faults counts failed duty writes; LastFault keeps the latest cause.
	Faults    uint32
	LastFault error
}

// StepResult describes what a single loop iteration did.
type StepResult struct {
	Now uint64

	DutyApplied bool
	Index       int    // table index read
	Raw         uint8  // table value
	Duty        uint32 // native value written

	ModeChanged bool
	Mode        int    // mode after this iteration
	PrevWindow  uint32 // updates applied during the window that just ended

	Yielded bool
}

// Controller owns the duty table, playback cursor, mode state and the two
// deadlines. It is driven by a single goroutine.
type Controller struct {
	cfg    Config
	hal    HAL
	log    *slog.Logger
	signal Signaler
	async  *AsyncSignaler

	table     DutyTable
	cursor    Cursor
	modes     *ModeScheduler
	nativeMax uint32

	nextDuty Deadline
	nextMode Deadline
	iter     uint32

	reportedFaults uint32
	stats          Stats
	ready          bool
}

// NewController validates cfg and hal and returns an uninitialised
// controller. A nil logger discards output.
func NewController(cfg Config, hal HAL, log *slog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := hal.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.Modes = append([]Mode(nil), cfg.Modes...)

	c := &Controller{
		cfg:    cfg,
		hal:    hal,
		log:    log,
		modes:  NewModeScheduler(cfg.Modes),
		cursor: NewCursor(cfg.TableSize),
	}

	var sig Signaler = SignalFunc(func(int) {})
	if hal.Indicator != nil {
		sig = NewPulseSignaler(hal.Indicator, hal.Delay, cfg.PulseOnUS, cfg.PulseOffUS)
	}
	c.SetSignaler(sig)
	return c, nil
}

// SetSignaler replaces the feedback signaler. With AsyncFeedback set in the
// configuration the signaler is wrapped in an AsyncSignaler. Call before Init.
func (c *Controller) SetSignaler(s Signaler) {
	c.async = nil
	if c.cfg.AsyncFeedback {
		c.async = NewAsyncSignaler(s, len(c.cfg.Modes))
		s = c.async
	}
	c.signal = s
}

// AsyncFeedback returns the queued signaler when AsyncFeedback is enabled.
// The caller must run it in its own goroutine.
func (c *Controller) AsyncFeedback() (*AsyncSignaler, bool) {
	return c.async, c.async != nil
}

// Init configures the PWM output, generates the duty table, gives the startup
// indication, prints the banner and arms both deadlines. A PWM configuration
// error is fatal and returned unchanged in meaning.
func (c *Controller) Init() error {
	nativeMax, err := c.hal.PWM.Configure(c.cfg.CarrierHz, c.cfg.ResolutionBits)
	if err != nil {
		return errcode.Wrap(errcode.PeripheralInit, "pwm configure", err)
	}
	if nativeMax == 0 {
		return &errcode.E{C: errcode.PeripheralInit, Op: "pwm configure", Msg: "zero duty resolution"}
	}
	c.nativeMax = nativeMax

	c.table = NewDutyTable(c.cfg.TableSize, c.cfg.DutyMin, c.cfg.DutyMax, c.hal.Entropy)

	c.signal.Signal(1)

	c.log.Info("variable duty generator",
		"frequencies_hz", joinUint32(c.cfg.Frequencies()),
		"mode_switch_ms", c.cfg.ModeSwitchUS/1000,
		"table_size", c.cfg.TableSize,
		"duty_min", c.cfg.DutyMin,
		"duty_max", c.cfg.DutyMax,
		"carrier_hz", c.cfg.CarrierHz,
		"native_max", nativeMax,
	)

	now := c.hal.Clock.NowMicros()
	c.nextDuty.Rearm(now, c.modes.Interval())
	c.nextMode.Rearm(now, c.cfg.ModeSwitchUS)
	c.ready = true
	return nil
}

// Step runs one loop iteration against a single clock read. A due duty
// update is applied before a due mode switch, and the duty deadline is
// re-armed with the interval of the mode active at the start of the
// iteration.
func (c *Controller) Step() StepResult {
	if !c.ready {
		panic("core: Step called before Init")
	}
	now := c.hal.Clock.NowMicros()
	interval := c.modes.Interval()
	r := StepResult{Now: now, Mode: c.modes.Current()}

	if c.nextDuty.Due(now) {
		c.nextDuty.Rearm(now, interval)
		r.Index = c.cursor.Next()
		r.Raw = c.table[r.Index]
		r.Duty = ScaleDuty(r.Raw, c.nativeMax)
		c.apply(r.Duty)
		r.DutyApplied = true
		c.stats.DutyUpdates++
		c.stats.WindowUpdates++
	}

	if c.nextMode.Due(now) {
		c.nextMode.Rearm(now, c.cfg.ModeSwitchUS)
		r.PrevWindow = c.stats.WindowUpdates
		c.stats.WindowUpdates = 0
		c.stats.ModeSwitches++

		r.Mode = c.modes.Advance()
		r.ModeChanged = true
		c.reportSwitch(r.Mode, r.PrevWindow)
		c.signal.Signal(r.Mode + 1)
	}

	c.stats.Iterations++
	c.iter++
	if c.iter >= c.cfg.YieldEvery {
		c.iter = 0
		c.stats.Yields++
		c.hal.Delay.Yield()
		r.Yielded = true
	}
	return r
}

// Run drives Step forever. It never returns.
func (c *Controller) Run() {
	for {
		c.Step()
	}
}

// apply writes one duty value. Failures are not retried; they are counted
// and surfaced on the next mode transition.
func (c *Controller) apply(duty uint32) {
	err := c.hal.PWM.SetDuty(duty)
	if err == nil {
		err = c.hal.PWM.Commit()
	}
	if err != nil {
		c.stats.Faults++
		c.stats.LastFault = errcode.Wrap(errcode.PeripheralWrite, "pwm write", err)
	}
}

func (c *Controller) reportSwitch(mode int, window uint32) {
	step := c.modes.Step()
	c.log.Info("switching mode",
		"mode", mode,
		"freq_hz", step.NominalHz,
		"updates", window,
	)
	if c.stats.Faults != c.reportedFaults {
		c.log.Warn("duty write faults",
			"faults", c.stats.Faults,
			"new", c.stats.Faults-c.reportedFaults,
			"err", c.stats.LastFault,
		)
		c.reportedFaults = c.stats.Faults
	}
	if c.async != nil {
		if d := c.async.Dropped(); d > 0 {
			c.log.Debug("feedback dropped", "dropped", d)
		}
	}
}

// Mode returns the active mode ordinal.
func (c *Controller) Mode() int { return c.modes.Current() }

// Cursor returns the next table index to be played.
func (c *Controller) Cursor() int { return c.cursor.Pos() }

// Table returns the duty table. It must not be modified.
func (c *Controller) Table() DutyTable { return c.table }

// NativeMax returns the duty maximum reported by the PWM output.
func (c *Controller) NativeMax() uint32 { return c.nativeMax }

// Stats returns a copy of the running counters.
func (c *Controller) Stats() Stats { return c.stats }

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }

// Deadlines returns the next duty and mode deadlines.
func (c *Controller) Deadlines() (duty, mode Deadline) { return c.nextDuty, c.nextMode }

func joinUint32(v []uint32) string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	}
	return b.String()
}
