package core

// ModeScheduler is the round-robin frequency-step state machine.
// It starts at mode 0 and cycles forever.
type ModeScheduler struct {
	modes []Mode
	cur   int
}

// NewModeScheduler copies modes; the caller's slice may be reused afterwards.
func NewModeScheduler(modes []Mode) *ModeScheduler {
	m := make([]Mode, len(modes))
	copy(m, modes)
	return &ModeScheduler{modes: m}
}

// Len returns the number of modes.
func (s *ModeScheduler) Len() int { return len(s.modes) }

// Current returns the active mode ordinal.
func (s *ModeScheduler) Current() int { return s.cur }

// Step returns the active mode's parameters.
func (s *ModeScheduler) Step() Mode { return s.modes[s.cur] }

// Interval returns the active mode's duty update interval in µs.
func (s *ModeScheduler) Interval() uint32 { return s.modes[s.cur].IntervalUS }

// Advance moves to the next mode, wrapping to 0 after the last, and returns
// the new ordinal.
func (s *ModeScheduler) Advance() int {
	s.cur++
	if s.cur >= len(s.modes) {
		s.cur = 0
	}
	return s.cur
}
