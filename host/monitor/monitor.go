// Package monitor follows the generator's console output and checks the
// observed mode schedule against the configured one.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Message strings emitted by the controller.
const (
	MsgBanner = "variable duty generator"
	MsgSwitch = "switching mode"
	MsgFaults = "duty write faults"
)

// Kind classifies a console line.
type Kind int

const (
	KindOther Kind = iota
	KindBanner
	KindSwitch
	KindFault
)

func (k Kind) String() string {
	switch k {
	case KindBanner:
		return "banner"
	case KindSwitch:
		return "switch"
	case KindFault:
		return "fault"
	}
	return "other"
}

// Event is one parsed console line.
type Event struct {
	At     time.Time
	Kind   Kind
	Fields map[string]string
	Line   string

	// Set for KindSwitch.
	Mode   int
	FreqHz int
	Period time.Duration // since the previous switch; zero for the first
}

// Summary aggregates everything observed so far.
type Summary struct {
	Switches    int
	Modes       int // from the banner, 0 if not seen
	Expected    time.Duration
	MeanPeriod  time.Duration
	StdDev      time.Duration
	MaxDrift    time.Duration // largest |period - expected|
	OutOfOrder  int           // switches that did not follow (prev+1) mod M
	Faults      int
	Unparseable int
}

// Monitor consumes console lines. It is not safe for concurrent use.
type Monitor struct {
	log      *slog.Logger
	expected time.Duration

	modes      int
	lastAt     time.Time
	lastMode   int
	haveSwitch bool
	periods    []float64 // µs

	switches   int
	outOfOrder int
	faults     int
	bad        int

	partial string
}

// New returns a monitor expecting one mode switch every expected.
func New(expected time.Duration, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{log: log, expected: expected}
}

// Observe classifies a line received at the given host time.
func (m *Monitor) Observe(at time.Time, line string) Event {
	ev := Event{At: at, Line: line}
	fields, err := ParseLine(line)
	if err != nil || fields["msg"] == "" {
		m.bad++
		m.log.Debug("unparsed console line", "line", line, "err", err)
		return ev
	}
	ev.Fields = fields

	switch fields["msg"] {
	case MsgBanner:
		ev.Kind = KindBanner
		if f := fields["frequencies_hz"]; f != "" {
			m.modes = len(strings.Split(f, ","))
		}
		if ms, err := strconv.Atoi(fields["mode_switch_ms"]); err == nil && m.expected == 0 {
			m.expected = time.Duration(ms) * time.Millisecond
		}
		m.haveSwitch = false
		m.lastMode = 0
		m.log.Info("generator started", "modes", m.modes, "frequencies_hz", fields["frequencies_hz"])

	case MsgSwitch:
		ev.Kind = KindSwitch
		ev.Mode, _ = strconv.Atoi(fields["mode"])
		ev.FreqHz, _ = strconv.Atoi(fields["freq_hz"])
		m.recordSwitch(&ev)

	case MsgFaults:
		ev.Kind = KindFault
		m.faults++
		m.log.Warn("generator reported write faults", "faults", fields["faults"], "err", fields["err"])
	}
	return ev
}

func (m *Monitor) recordSwitch(ev *Event) {
	m.switches++
	if m.modes > 0 && ev.Mode != (m.lastMode+1)%m.modes {
		m.outOfOrder++
		m.log.Warn("mode out of order", "got", ev.Mode, "want", (m.lastMode+1)%m.modes)
	}
	if m.haveSwitch {
		ev.Period = ev.At.Sub(m.lastAt)
		m.periods = append(m.periods, float64(ev.Period.Microseconds()))
	}
	m.lastAt, m.lastMode, m.haveSwitch = ev.At, ev.Mode, true
	m.log.Info("mode", "mode", ev.Mode, "freq_hz", ev.FreqHz, "period", ev.Period)
}

// Summary returns the aggregate statistics.
func (m *Monitor) Summary() Summary {
	s := Summary{
		Switches:    m.switches,
		Modes:       m.modes,
		Expected:    m.expected,
		OutOfOrder:  m.outOfOrder,
		Faults:      m.faults,
		Unparseable: m.bad,
	}
	if len(m.periods) == 0 {
		return s
	}
	mean, std := stat.MeanStdDev(m.periods, nil)
	s.MeanPeriod = time.Duration(mean) * time.Microsecond
	if len(m.periods) > 1 {
		s.StdDev = time.Duration(std) * time.Microsecond
	}
	exp := float64(m.expected.Microseconds())
	var worst float64
	for _, p := range m.periods {
		d := p - exp
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	s.MaxDrift = time.Duration(worst) * time.Microsecond
	return s
}

// maxLine bounds a buffered partial line; longer runs without a newline
// are dropped and counted as unparseable.
const maxLine = 64 << 10

// Run reads lines from r until EOF or ctx is done, stamping each with now()
// and passing the parsed event to fn (which may be nil). A trailing line
// without a newline is held back and completed by the next call, so a
// serial read timeout that splits a line does not corrupt it.
func (m *Monitor) Run(ctx context.Context, r io.Reader, now func() time.Time, fn func(Event)) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := br.ReadString('\n')
		if err != nil {
			m.hold(chunk)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line := strings.TrimRight(m.partial+chunk, "\r\n")
		m.partial = ""
		if line == "" {
			continue
		}
		ev := m.Observe(now(), line)
		if fn != nil {
			fn(ev)
		}
	}
}

// Pending returns the buffered incomplete line, if any.
func (m *Monitor) Pending() string { return m.partial }

func (m *Monitor) hold(fragment string) {
	m.partial += fragment
	if len(m.partial) > maxLine {
		m.log.Warn("dropping overlong console line", "bytes", len(m.partial))
		m.partial = ""
		m.bad++
	}
}
