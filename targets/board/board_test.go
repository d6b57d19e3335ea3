package board

import (
	"testing"

	"varduty/core"
)

func TestPicoDefaults(t *testing.T) {
	cfg := Pico.Apply(core.DefaultConfig())
	if cfg.OutputPin != 16 {
		t.Errorf("output pin = %d, want GP16", cfg.OutputPin)
	}
	if cfg.OutputPin == cfg.IndicatorPin {
		t.Error("PWM output shares the indicator LED pin")
	}
	if !Pico.CanPWM(cfg.OutputPin) {
		t.Errorf("GP%d has no PWM function", cfg.OutputPin)
	}
}

func TestRaspberryPiDefaults(t *testing.T) {
	cfg := RaspberryPi.Apply(core.DefaultConfig())
	if cfg.OutputPin != 18 || !RaspberryPi.CanPWM(cfg.OutputPin) {
		t.Errorf("output pin = %d, want PWM-capable BCM18", cfg.OutputPin)
	}
	if cfg.IndicatorPin != core.NoPin {
		t.Errorf("indicator pin = %d, want none by default", cfg.IndicatorPin)
	}
}

func TestApplyKeepsExplicitPins(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.OutputPin, cfg.IndicatorPin = 13, 4
	got := RaspberryPi.Apply(cfg)
	if got.OutputPin != 13 || got.IndicatorPin != 4 {
		t.Errorf("Apply overrode explicit pins: %d / %d", got.OutputPin, got.IndicatorPin)
	}
}
