// Package serialport provides the minimal serial port abstraction the UART
// transport opens underneath. Adapted from gopper's host/serial package.
package serialport

import "io"

// Port is a duplex byte stream to a physical or mock serial line.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial line parameters for the UART transport.
type Config struct {
	Device      string // e.g. "/dev/ttyUSB0", "COM3"
	BaudRate    int    // 115200-8N1 default per the wire spec
	ReadTimeout int    // milliseconds
}

// DefaultConfig returns the spec's default UART line parameters for device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		BaudRate:    115200,
		ReadTimeout: 1000,
	}
}
