package sim

import (
	"io"

	"varduty/core"
	"varduty/protocol"
)

// WriteTrace stores the run's samples in the trace capture format.
func WriteTrace(w io.Writer, r *Result) error {
	tw := protocol.NewTraceWriter(w)
	var last uint64
	for _, s := range r.Samples {
		rec := protocol.Record{
			DeltaUS: uint32(s.AtUS - last),
			Raw:     s.Raw,
			Mode:    uint8(s.Mode),
		}
		if err := tw.Write(rec); err != nil {
			return err
		}
		last = s.AtUS
	}
	return tw.Flush()
}

// ReadTrace rebuilds samples from a trace, scaling raw values to nativeMax.
func ReadTrace(rd io.Reader, nativeMax uint32) ([]Sample, error) {
	recs, err := protocol.NewTraceReader(rd).ReadAll()
	if err != nil {
		return nil, err
	}
	out := make([]Sample, len(recs))
	var at uint64
	for i, rec := range recs {
		at += uint64(rec.DeltaUS)
		out[i] = Sample{AtUS: at, Raw: rec.Raw, Mode: int(rec.Mode), Duty: core.ScaleDuty(rec.Raw, nativeMax)}
	}
	return out, nil
}

// FromSamples rebuilds a Result from recorded samples, deriving the mode
// windows from mode changes between consecutive samples. The last window
// is left open and not reported.
func FromSamples(cfg core.Config, nativeMax uint32, samples []Sample) *Result {
	res := &Result{Config: cfg, NativeMax: nativeMax, Samples: samples}
	if len(samples) == 0 {
		return res
	}
	res.EndUS = samples[len(samples)-1].AtUS

	cur := Window{Mode: samples[0].Mode, StartUS: 0}
	for _, s := range samples {
		if s.Mode != cur.Mode {
			cur.EndUS = s.AtUS
			res.Windows = append(res.Windows, cur)
			cur = Window{Mode: s.Mode, StartUS: s.AtUS}
		}
		cur.Updates++
	}
	for i := range res.Windows {
		if m := res.Windows[i].Mode; m < len(cfg.Modes) {
			res.Windows[i].NominalHz = cfg.Modes[m].NominalHz
		}
	}
	return res
}
