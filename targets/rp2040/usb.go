//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// TinyGo automatically sets up USB CDC-ACM on RP2040
func InitUSB() error {
	// On RP2040, machine.Serial is USB CDC, not UART; the descriptors are
	// set by TinyGo's runtime.
	return machine.Serial.Configure(machine.UARTConfig{})
}
