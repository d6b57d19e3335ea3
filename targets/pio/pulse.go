//go:build rp2040 || rp2350

package pio

import (
	"machine"
	"sync/atomic"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"varduty/errcode"
)

// buildPulseProgram creates the pulse-train program using AssemblerV0.
// Each 32-bit FIFO word is a pulse count minus one. One pulse is
// CyclesPerPhase cycles high followed by CyclesPerPhase cycles low.
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),        // 0: pull block
		asm.Out(rp2pio.OutDestX, 32).Encode(), // 1: out x, 32
		// pulse:
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 2: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 3: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 0).Delay(31).Encode(), // 4: set pins, 0 [31]
		asm.Set(rp2pio.SetDestPins, 0).Delay(30).Encode(), // 5: set pins, 0 [30]
		asm.Jmp(2, rp2pio.JmpXNZeroDec).Encode(),          // 6: jmp x--, pulse
		// .wrap
	}
}

const pulsePIOOrigin = 0 // Load at offset 0 for correct jump addresses

// PulseTrain emits count-coded pulse bursts from a PIO state machine. Signal
// only writes the TX FIFO, so the caller never waits for the LED.
type PulseTrain struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	pin     machine.Pin
	offset  uint8
	dropped atomic.Uint32
}

// NewPulseTrain claims state machine smNum on block pioNum and starts the
// program on pin with phaseUS-long on and off phases.
func NewPulseTrain(pioNum, smNum uint8, pin machine.Pin, phaseUS uint32) (*PulseTrain, error) {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	whole, frac, err := ClockDivider(machine.CPUFrequency(), phaseUS)
	if err != nil {
		return nil, err
	}

	p := &PulseTrain{pio: pioHW, sm: pioHW.StateMachine(smNum), pin: pin}
	if !p.sm.TryClaim() {
		return nil, &errcode.E{C: errcode.PeripheralInit, Op: "pio", Msg: "state machine busy"}
	}

	program := buildPulseProgram()
	offset, err := p.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		return nil, errcode.Wrap(errcode.PeripheralInit, "pio add program", err)
	}
	p.offset = offset

	pin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(whole, frac)

	// Pin directions must be set after Init.
	p.sm.Init(offset, cfg)
	p.sm.SetPindirsConsecutive(pin, 1, true)
	p.sm.SetPinsConsecutive(pin, 1, false)
	p.sm.SetEnabled(true)
	return p, nil
}

// Signal queues a burst of count pulses. With the FIFO full the request is
// dropped and counted.
func (p *PulseTrain) Signal(count int) {
	if count <= 0 {
		return
	}
	if p.sm.IsTxFIFOFull() {
		p.dropped.Add(1)
		return
	}
	p.sm.TxPut(uint32(count - 1))
}

// Dropped returns the number of bursts discarded on a full FIFO.
func (p *PulseTrain) Dropped() uint32 { return p.dropped.Load() }

// Stop discards queued bursts, drives the pin low and leaves the state
// machine disabled so the pin can be reclaimed as plain GPIO.
func (p *PulseTrain) Stop() {
	p.sm.SetEnabled(false)
	p.sm.ClearFIFOs()
	p.sm.Restart()
	p.sm.SetPinsConsecutive(p.pin, 1, false)
}
