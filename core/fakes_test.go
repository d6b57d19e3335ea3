package core

import (
	"math/rand/v2"
)

// fakeTime is a virtual monotonic clock that also implements Delayer.
// Delays advance the clock; yields advance it by yieldCost.
type fakeTime struct {
	now       uint64
	yieldCost uint32
	yields    int
	delayed   uint64
}

func (f *fakeTime) NowMicros() uint64 { return f.now }

func (f *fakeTime) DelayMicros(us uint32) {
	f.now += uint64(us)
	f.delayed += uint64(us)
}

func (f *fakeTime) Yield() {
	f.yields++
	f.now += uint64(f.yieldCost)
}

func (f *fakeTime) advance(us uint64) { f.now += us }

// fakePWM records every staged and committed duty value.
type fakePWM struct {
	carrierHz uint32
	bits      uint8
	configErr error
	writeErr  error

	staged    uint32
	committed []uint32
}

func (p *fakePWM) Configure(carrierHz uint32, bits uint8) (uint32, error) {
	if p.configErr != nil {
		return 0, p.configErr
	}
	p.carrierHz, p.bits = carrierHz, bits
	return NativeMax(bits), nil
}

func (p *fakePWM) SetDuty(v uint32) error {
	if p.writeErr != nil {
		return p.writeErr
	}
	p.staged = v
	return nil
}

func (p *fakePWM) Commit() error {
	p.committed = append(p.committed, p.staged)
	return nil
}

// fakePin records every level written.
type fakePin struct {
	levels []bool
}

func (p *fakePin) Set(high bool) { p.levels = append(p.levels, high) }

func (p *fakePin) rising() int {
	n := 0
	prev := false
	for _, l := range p.levels {
		if l && !prev {
			n++
		}
		prev = l
	}
	return n
}

// seqEntropy replays a fixed sequence, cycling when exhausted.
type seqEntropy struct {
	vals []uint32
	i    int
}

func (s *seqEntropy) Uint32() uint32 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// pcgEntropy is a seeded generator so property tests are reproducible.
type pcgEntropy struct{ r *rand.Rand }

func newPCGEntropy(seed uint64) *pcgEntropy {
	return &pcgEntropy{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcgEntropy) Uint32() uint32 { return p.r.Uint32() }

// recordSignaler keeps every requested count.
type recordSignaler struct {
	counts []int
}

func (r *recordSignaler) Signal(n int) { r.counts = append(r.counts, n) }

func newTestHAL(t *fakeTime, p *fakePWM) HAL {
	return HAL{
		Clock:   t,
		PWM:     p,
		Entropy: newPCGEntropy(1),
		Delay:   t,
	}
}
