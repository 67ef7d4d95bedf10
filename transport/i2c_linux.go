//go:build linux

package transport

import (
	"context"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

// Linux i2c-dev ioctl constants (linux/i2c-dev.h, linux/i2c.h). Not
// exposed by golang.org/x/sys/unix, so declared locally the way the
// khirono/go-i2c smbus binding does for its own ioctl struct.
const (
	i2cSlave = 0x0703
	i2cRDWR  = 0x0707
	i2mRD    = 0x0001
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	pad   uint16
	buf   unsafe.Pointer
}

type i2cRdwrIoctlData struct {
	msgs uintptr
	nmsg uint32
	pad  uint32
}

// I2C is the I2C/SMBus transport variant: an adapter device node
// (/dev/i2c-N) addressed per call by the 7-bit slave address, combined
// with PEC framing above it (§4.1).
type I2C struct {
	statsTracker

	cfg  I2CConfig
	path string
	fd   *os.File
}

// NewI2C constructs an I2C transport bound to the adapter device node at
// path (e.g. "/dev/i2c-1"). AdapterPort in cfg is informational only on
// Linux; the device node already names the bus.
func NewI2C(path string, cfg I2CConfig) *I2C {
	return &I2C{cfg: cfg, path: path}
}

func (t *I2C) Open(ctx context.Context) error {
	f, err := os.OpenFile(t.path, os.O_RDWR, 0)
	if err != nil {
		return phoenixerr.NewTransportError("i2c.Open", phoenixerr.TransportAdapterMissing, t.path, err)
	}
	t.fd = f
	return nil
}

func (t *I2C) Close() error {
	if t.fd == nil {
		return nil
	}
	err := t.fd.Close()
	t.fd = nil
	return err
}

// Write performs S Addr Wr [A] data... [A] P via a plain write(2) after
// setting the slave address, per i2c-dev semantics. Transient bus errors
// are retried per withRetry; a NAK is returned immediately.
func (t *I2C) Write(ctx context.Context, slaveAddr uint8, data []byte) error {
	return withRetry(ctx, &t.statsTracker, func() error {
		if err := t.setSlave(slaveAddr); err != nil {
			return err
		}
		if _, err := t.fd.Write(data); err != nil {
			t.recordError()
			return phoenixerr.NewTransportError("i2c.Write", phoenixerr.TransportBusError, t.path, err)
		}
		t.recordTx(len(data))
		return nil
	})
}

// Read performs S Addr Rd [A] [data] NA P via a plain read(2).
func (t *I2C) Read(ctx context.Context, slaveAddr uint8, n int) ([]byte, error) {
	var resp []byte
	err := withRetry(ctx, &t.statsTracker, func() error {
		if err := t.setSlave(slaveAddr); err != nil {
			return err
		}
		buf := make([]byte, n)
		if _, err := t.fd.Read(buf); err != nil {
			t.recordError()
			return phoenixerr.NewTransportError("i2c.Read", phoenixerr.TransportBusError, t.path, err)
		}
		t.recordRx(n)
		resp = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// WriteRead issues one I2C_RDWR ioctl carrying a write message followed
// by a read message with no STOP between them (repeated START), matching
// §4.1's "START-W-repeated START-R-STOP" requirement — a plain
// write()-then-read() pair would release the bus between the two phases
// and let another transaction interleave.
func (t *I2C) WriteRead(ctx context.Context, slaveAddr uint8, write []byte, readLen int) ([]byte, error) {
	var result []byte
	err := withRetry(ctx, &t.statsTracker, func() error {
		resp := make([]byte, readLen)
		msgs := [2]i2cMsg{
			{addr: uint16(slaveAddr), flags: 0, len: uint16(len(write)), buf: unsafe.Pointer(&write[0])},
			{addr: uint16(slaveAddr), flags: i2mRD, len: uint16(readLen), buf: unsafe.Pointer(&resp[0])},
		}
		data := i2cRdwrIoctlData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsg: 2}

		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, t.fd.Fd(), i2cRDWR, uintptr(unsafe.Pointer(&data))); errno != 0 {
			t.recordError()
			if errno == unix.ENXIO || errno == unix.EREMOTEIO {
				return phoenixerr.NewTransportError("i2c.WriteRead", phoenixerr.TransportNak, fmt.Sprintf("addr 0x%02X", slaveAddr), errno)
			}
			return phoenixerr.NewTransportError("i2c.WriteRead", phoenixerr.TransportBusError, t.path, errno)
		}
		t.recordTx(len(write))
		t.recordRx(readLen)
		result = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *I2C) setSlave(addr uint8) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, t.fd.Fd(), i2cSlave, uintptr(addr)); errno != 0 {
		return phoenixerr.NewTransportError("i2c.setSlave", phoenixerr.TransportBusError, t.path, errno)
	}
	return nil
}

func (t *I2C) Stats() Stats { return t.snapshot() }
func (t *I2C) ResetStats()  { t.reset() }

// I2CFactoryConfig is the config value registered under the "i2c" name in
// Factory.
type I2CFactoryConfig struct {
	DevicePath string
	Config     I2CConfig
}

func init() {
	Factory.Register("i2c", func(config any) (Transport, error) {
		cfg, ok := config.(I2CFactoryConfig)
		if !ok {
			return nil, fmt.Errorf("transport: i2c constructor expects I2CFactoryConfig, got %T", config)
		}
		return NewI2C(cfg.DevicePath, cfg.Config), nil
	})
}
