package sim

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Analysis summarises the played duty values and the mode windows.
type Analysis struct {
	Updates int
	Mean    float64
	StdDev  float64
	Min     uint8
	Max     uint8

	// ChiSquare compares the histogram of played values with a uniform
	// distribution over [DutyMin, DutyMax]; Bins is its degrees of freedom
	// plus one.
	ChiSquare float64
	Bins      int

	Windows []WindowCheck
}

// WindowCheck compares one window's update count with the ideal
// switch period divided by the mode interval.
type WindowCheck struct {
	Window
	Expected int
	Delta    int
}

// Analyze computes statistics over r.
func Analyze(r *Result) Analysis {
	a := Analysis{Updates: len(r.Samples)}
	vals := r.RawValues()
	if len(vals) > 0 {
		a.Mean, a.StdDev = stat.MeanStdDev(vals, nil)
		if len(vals) == 1 {
			a.StdDev = 0
		}
		a.Min, a.Max = 255, 0
		for _, s := range r.Samples {
			a.Min = min(a.Min, s.Raw)
			a.Max = max(a.Max, s.Raw)
		}
		a.ChiSquare, a.Bins = uniformity(r)
	}

	for _, w := range r.Windows {
		iv := r.Config.Modes[w.Mode].IntervalUS
		exp := int(r.Config.ModeSwitchUS / iv)
		a.Windows = append(a.Windows, WindowCheck{
			Window:   w,
			Expected: exp,
			Delta:    int(w.Updates) - exp,
		})
	}
	return a
}

// MaxWindowDelta returns the largest |Delta| across all windows.
func (a Analysis) MaxWindowDelta() int {
	worst := 0
	for _, w := range a.Windows {
		worst = max(worst, int(math.Abs(float64(w.Delta))))
	}
	return worst
}

func uniformity(r *Result) (float64, int) {
	lo, hi := r.Config.DutyMin, r.Config.DutyMax
	bins := int(hi) - int(lo) + 1
	if bins < 2 {
		return 0, bins
	}
	obs := make([]float64, bins)
	for _, s := range r.Samples {
		if s.Raw >= lo && s.Raw <= hi {
			obs[int(s.Raw-lo)]++
		}
	}
	exp := make([]float64, bins)
	e := float64(len(r.Samples)) / float64(bins)
	for i := range exp {
		exp[i] = e
	}
	return stat.ChiSquare(obs, exp), bins
}
