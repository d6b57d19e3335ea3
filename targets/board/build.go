package board

import (
	"strconv"

	"varduty/core"
	"varduty/errcode"
)

// Indicator kinds selectable at build time.
const (
	IndicatorGPIO   = "gpio"
	IndicatorPIO    = "pio"
	IndicatorWS2812 = "ws2812"
)

// BuildOptions carries firmware settings injected with -ldflags -X, where
// every value is a string.
type BuildOptions struct {
	Indicator     string
	AsyncFeedback string
}

// Apply validates the options and folds them into cfg.
func (o BuildOptions) Apply(cfg core.Config) (core.Config, error) {
	switch o.Indicator {
	case "", IndicatorGPIO, IndicatorPIO, IndicatorWS2812:
	default:
		return cfg, &errcode.E{C: errcode.InvalidConfig, Op: "build options", Msg: "unknown indicator " + strconv.Quote(o.Indicator)}
	}
	if o.AsyncFeedback != "" {
		async, err := strconv.ParseBool(o.AsyncFeedback)
		if err != nil {
			return cfg, errcode.Wrap(errcode.InvalidConfig, "build options async feedback", err)
		}
		cfg.AsyncFeedback = async
	}
	return cfg, nil
}
