package transport

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

// Mock is an in-memory Transport standing in for a real I2C/UART adapter
// in tests. It understands the SMBus command/PEC wire format well enough
// to serve register reads and writes from an address-keyed value map,
// mirroring the reference implementation's MockAdapter (see
// SPEC_FULL.md §12, the MockAdapter item): a real SMBus bus is just a byte pipe, so something
// downstream of the transport has to play the part of the physical
// register file, and the reference puts that behind the same seam.
type Mock struct {
	statsTracker

	mu           sync.Mutex
	registers    map[uint32]uint32
	nak          map[uint8]bool
	busError     map[uint8]error
	corruptPEC   map[uint32]int // remaining corrupted responses for this address
	transientErr map[uint8]int  // remaining transient bus-error failures for this address
	nakCountdown map[uint8]int  // remaining transient NAK failures for this address
	opDelay      time.Duration
}

func NewMock() *Mock {
	return &Mock{
		registers:    make(map[uint32]uint32),
		nak:          make(map[uint8]bool),
		busError:     make(map[uint8]error),
		corruptPEC:   make(map[uint32]int),
		transientErr: make(map[uint8]int),
		nakCountdown: make(map[uint8]int),
	}
}

// SetRegister seeds the mock device's register file.
func (m *Mock) SetRegister(addr uint32, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registers[addr] = value
}

// Register reads back the current value, for test assertions after a write.
func (m *Mock) Register(addr uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registers[addr]
}

// SetNAK makes every operation against slaveAddr fail as if no device
// responded.
func (m *Mock) SetNAK(slaveAddr uint8, nak bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nak[slaveAddr] = nak
}

// SetBusError makes every operation against slaveAddr fail with a generic
// (non-NAK) transport error, simulating a wedged bus.
func (m *Mock) SetBusError(slaveAddr uint8, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.busError, slaveAddr)
		return
	}
	m.busError[slaveAddr] = err
}

// CorruptNextRead causes the next n read responses for addr to carry a
// flipped PEC byte, simulating wire corruption for PEC error tests.
func (m *Mock) CorruptNextRead(addr uint32, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corruptPEC[addr] = n
}

// FailNextTransient makes the next n operations against slaveAddr fail
// with a transient (retryable) bus error, then succeed normally. Used to
// exercise the retry-with-backoff path a real transient bus glitch takes.
func (m *Mock) FailNextTransient(slaveAddr uint8, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transientErr[slaveAddr] = n
}

// SetNAKForNext makes the next n operations against slaveAddr fail with a
// NAK, then succeed normally. Used to exercise a poll loop surviving the
// transient NAKs a device issues right after a reset strobe (§4.5 test
// vector 4), as opposed to SetNAK's persistent "nothing ever answers".
func (m *Mock) SetNAKForNext(slaveAddr uint8, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nakCountdown[slaveAddr] = n
}

// SetOperationDelay makes every Read/Write/WriteRead sleep for d before
// returning, widening the window in which a concurrent caller could
// observe an in-progress read-modify-write if it weren't serialized.
func (m *Mock) SetOperationDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opDelay = d
}

func (m *Mock) Open(ctx context.Context) error  { return nil }
func (m *Mock) Close() error                    { return nil }

func (m *Mock) Write(ctx context.Context, slaveAddr uint8, data []byte) error {
	return withRetry(ctx, &m.statsTracker, func() error {
		if err := m.checkFault(slaveAddr); err != nil {
			m.recordError()
			return err
		}
		m.recordTx(len(data))

		if len(data) < 6 {
			return phoenixerr.New(phoenixerr.KindTransportError, "mock.Write", "frame too short")
		}
		width, ok := widthForWriteCmd(data[0])
		if !ok {
			return phoenixerr.New(phoenixerr.KindTransportError, "mock.Write", "unknown command byte")
		}
		addr := binary.LittleEndian.Uint32(data[1:5])
		valueBytes := data[5 : 5+width]
		var value uint32
		if width == 2 {
			value = uint32(binary.LittleEndian.Uint16(valueBytes))
		} else {
			value = binary.LittleEndian.Uint32(valueBytes)
		}

		m.mu.Lock()
		m.registers[addr] = value
		m.mu.Unlock()
		return nil
	})
}

func (m *Mock) Read(ctx context.Context, slaveAddr uint8, n int) ([]byte, error) {
	var resp []byte
	err := withRetry(ctx, &m.statsTracker, func() error {
		if err := m.checkFault(slaveAddr); err != nil {
			m.recordError()
			return err
		}
		resp = make([]byte, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *Mock) WriteRead(ctx context.Context, slaveAddr uint8, write []byte, readLen int) ([]byte, error) {
	var result []byte
	err := withRetry(ctx, &m.statsTracker, func() error {
		return m.writeReadOnce(slaveAddr, write, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *Mock) writeReadOnce(slaveAddr uint8, write []byte, result *[]byte) error {
	if err := m.checkFault(slaveAddr); err != nil {
		m.recordError()
		return err
	}
	m.recordTx(len(write))

	if len(write) < 6 {
		return phoenixerr.New(phoenixerr.KindTransportError, "mock.WriteRead", "frame too short")
	}
	width, ok := widthForReadCmd(write[0])
	if !ok {
		return phoenixerr.New(phoenixerr.KindTransportError, "mock.WriteRead", "unknown command byte")
	}
	addr := binary.LittleEndian.Uint32(write[1:5])

	m.mu.Lock()
	value := m.registers[addr]
	corrupt := m.corruptPEC[addr] > 0
	if corrupt {
		m.corruptPEC[addr]--
	}
	m.mu.Unlock()

	data := make([]byte, width)
	if width == 2 {
		binary.LittleEndian.PutUint16(data, uint16(value))
	} else {
		binary.LittleEndian.PutUint32(data, value)
	}

	pec := framePEC(slaveAddr, 1, data)
	if corrupt {
		pec ^= 0xFF
	}

	resp := append(data, pec)
	m.recordRx(len(resp))
	*result = resp
	return nil
}

func (m *Mock) checkFault(slaveAddr uint8) error {
	m.mu.Lock()
	delay := m.opDelay
	var err error
	switch {
	case m.transientErr[slaveAddr] > 0:
		m.transientErr[slaveAddr]--
		err = phoenixerr.NewTransportError("mock", phoenixerr.TransportBusError, "simulated transient bus error", nil)
	case m.nakCountdown[slaveAddr] > 0:
		m.nakCountdown[slaveAddr]--
		err = phoenixerr.NewTransportError("mock", phoenixerr.TransportNak, "no device acknowledged", nil)
	case m.nak[slaveAddr]:
		err = phoenixerr.NewTransportError("mock", phoenixerr.TransportNak, "no device acknowledged", nil)
	default:
		if busErr, ok := m.busError[slaveAddr]; ok {
			err = phoenixerr.NewTransportError("mock", phoenixerr.TransportBusError, "simulated bus error", busErr)
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (m *Mock) Stats() Stats { return m.snapshot() }
func (m *Mock) ResetStats()  { m.reset() }

func widthForReadCmd(cmd byte) (int, bool) {
	switch cmd {
	case 0x03:
		return 2, true
	case 0x05:
		return 4, true
	default:
		return 0, false
	}
}

func widthForWriteCmd(cmd byte) (int, bool) {
	switch cmd {
	case 0x13:
		return 2, true
	case 0x15:
		return 4, true
	default:
		return 0, false
	}
}

// framePEC duplicates framing.ComputeFramePEC's algorithm without an
// import cycle (framing imports transport for the Transport interface).
func framePEC(slaveAddr uint8, rw byte, payload []byte) byte {
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, (slaveAddr<<1)|rw)
	buf = append(buf, payload...)
	crc := byte(0)
	for _, b := range buf {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
