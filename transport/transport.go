// Package transport implements the byte-level duplex link to a single
// physical adapter: I2C/SMBus via a USB-to-I2C bridge, or UART via a raw
// serial line. Both variants implement the same capability set, following
// the runtime-class-inheritance-to-interface redesign in the design notes.
package transport

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

// DefaultTimeout is the default deadline for a single transport operation.
const DefaultTimeout = 1000 * time.Millisecond

// MaxRetries bounds the number of retries on transient bus errors. NAK is
// never retried at this layer.
const MaxRetries = 2

// RetryBackoff is the delay between retry attempts.
const RetryBackoff = 10 * time.Millisecond

// Transport is the capability set shared by the I2C and UART variants.
type Transport interface {
	// Open establishes the underlying connection. Idempotent implementations
	// may treat a second Open as a no-op; Phoenix never relies on that.
	Open(ctx context.Context) error

	// Close releases the hardware handle. Idempotent.
	Close() error

	// Write sends bytes to slaveAddr with no expected response.
	Write(ctx context.Context, slaveAddr uint8, data []byte) error

	// Read reads exactly n bytes from slaveAddr.
	Read(ctx context.Context, slaveAddr uint8, n int) ([]byte, error)

	// WriteRead performs an atomic write followed by a read, with no STOP
	// condition between them on I2C (START-W-repeated START-R-STOP).
	WriteRead(ctx context.Context, slaveAddr uint8, write []byte, readLen int) ([]byte, error)

	// Stats returns a snapshot of accumulated transport statistics.
	Stats() Stats

	// ResetStats zeroes the accumulated statistics.
	ResetStats()
}

// Stats tracks transport-layer counters. Supplemental to the distilled
// spec; see SPEC_FULL.md §12.1.
type Stats struct {
	BytesSent     uint64
	BytesReceived uint64
	Transactions  uint64
	Errors        uint64
	Retries       uint64
	PECFailures   uint64
}

// statsTracker is embedded by each Transport implementation to share the
// counter bookkeeping without duplicating locking logic.
type statsTracker struct {
	mu    sync.Mutex
	stats Stats
}

func (s *statsTracker) recordTx(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.BytesSent += uint64(n)
	s.stats.Transactions++
}

func (s *statsTracker) recordRx(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.BytesReceived += uint64(n)
}

func (s *statsTracker) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Errors++
}

func (s *statsTracker) recordRetry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Retries++
}

func (s *statsTracker) recordPECFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.PECFailures++
}

func (s *statsTracker) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *statsTracker) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = Stats{}
}

// I2CConfig configures the I2C/SMBus transport variant.
type I2CConfig struct {
	AdapterPort   uint8
	BusSpeedKHz   uint16 // 100, 400, or 1000
	SlaveAddress  uint8  // 7-bit
	Timeout       time.Duration
	PECEnabled    bool
}

// DefaultI2CConfig returns the spec's default I2C parameters for one slave.
func DefaultI2CConfig(adapterPort, slaveAddress uint8) I2CConfig {
	return I2CConfig{
		AdapterPort:  adapterPort,
		BusSpeedKHz:  400,
		SlaveAddress: slaveAddress,
		Timeout:      DefaultTimeout,
		PECEnabled:   true,
	}
}

// UARTConfig configures the UART transport variant.
type UARTConfig struct {
	PortName string
	BaudRate uint32
	Timeout  time.Duration
}

// DefaultUARTConfig returns the spec's default UART parameters (115200-8N1).
func DefaultUARTConfig(portName string) UARTConfig {
	return UARTConfig{
		PortName: portName,
		BaudRate: 115200,
		Timeout:  DefaultTimeout,
	}
}

// withRetry runs op, retrying up to MaxRetries times with RetryBackoff
// between attempts. Only a transient bus error is retried; a NAK (the bus
// telling us definitively that no device is there) or any other error is
// returned on the first attempt (§4.1/§7). Each retry increments stats'
// Retries counter.
func withRetry(ctx context.Context, stats *statsTracker, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || !isTransientBusError(err) || attempt >= MaxRetries {
			return err
		}
		stats.recordRetry()
		select {
		case <-time.After(RetryBackoff):
		case <-ctx.Done():
			return err
		}
	}
}

func isTransientBusError(err error) bool {
	var e *phoenixerr.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == phoenixerr.KindTransportError && e.TransportKind == phoenixerr.TransportBusError
}

// SortedAddresses returns addrs sorted ascending, as required by discovery
// (§4.6 probes addresses in sorted order).
func SortedAddresses(addrs []uint8) []uint8 {
	out := make([]uint8, len(addrs))
	copy(out, addrs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
