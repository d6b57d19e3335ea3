// Package serial opens the generator's text console on a host serial port.
package serial

import (
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"varduty/errcode"
)

// Console defaults. USB CDC ignores the baud rate; a UART bridge needs it
// to match the firmware.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 500 * time.Millisecond
)

// Config selects the device and line settings. A zero ReadTimeout blocks
// until data arrives.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// DefaultConfig returns the console settings for device.
func DefaultConfig(device string) Config {
	return Config{Device: device, Baud: DefaultBaud, ReadTimeout: DefaultReadTimeout}
}

// Validate reports settings tarm/serial would reject or misinterpret.
func (c Config) Validate() error {
	switch {
	case c.Device == "":
		return &errcode.E{C: errcode.InvalidConfig, Op: "serial", Msg: "no device given"}
	case c.Baud <= 0:
		return &errcode.E{C: errcode.InvalidConfig, Op: "serial", Msg: "baud must be positive"}
	case c.ReadTimeout < 0:
		return &errcode.E{C: errcode.InvalidConfig, Op: "serial", Msg: "negative read timeout"}
	}
	return nil
}

type rawPort interface {
	io.ReadWriteCloser
	Flush() error
}

var openRaw = func(c *serial.Config) (rawPort, error) {
	return serial.OpenPort(c)
}

// Console is an open serial port. Close may be called from another
// goroutine to unblock a pending Read, and more than once.
type Console struct {
	port   rawPort
	device string

	closeOnce sync.Once
	closeErr  error
}

// Open validates cfg and opens the port.
func Open(cfg Config) (*Console, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	port, err := openRaw(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.PeripheralInit, "open "+cfg.Device, err)
	}
	return &Console{port: port, device: cfg.Device}, nil
}

func (c *Console) Read(b []byte) (int, error)  { return c.port.Read(b) }
func (c *Console) Write(b []byte) (int, error) { return c.port.Write(b) }

// Flush discards anything the device sent before we started listening.
func (c *Console) Flush() error { return c.port.Flush() }

// Close releases the port. Later calls return the first result.
func (c *Console) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.port.Close() })
	return c.closeErr
}

// Device returns the path the console was opened with.
func (c *Console) Device() string { return c.device }
