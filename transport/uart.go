package transport

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/phoenix-retimer/phoenix/internal/fifobuf"
	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/transport/serialport"
)

const (
	uartSync         byte = 0xA5
	uartHeaderSize        = 3 // SYNC, LEN, SLAVE
	uartTrailerSize       = 1 // CRC8
	uartMaxPayload        = 255
	uartInputBufSize      = 4096
)

// UART is the length-framed UART transport variant (§4.1): each frame is
// SYNC(0xA5) | LEN(u8) | SLAVE(u8) | PAYLOAD[LEN] | CRC8. UART carries no
// true bus, so write_read is two consecutive frames correlated by a
// cookie the transport appends to the end of the request payload; the
// response echoes that cookie as its first payload byte.
//
// Background read/dispatch loop and cookie-keyed response channels are
// adapted from gopper's protocol.HostTransport, substituting this wire
// format's SYNC/LEN/SLAVE/CRC8 framing for Klipper's length/seq/CRC16.
type UART struct {
	statsTracker

	port serialport.Port
	cfg  UARTConfig

	input *fifobuf.Buffer

	writeMu sync.Mutex
	pendMu  sync.Mutex
	pending map[byte]chan uartFrame
	cookie  byte

	synchronized bool

	stopCh chan struct{}
	doneCh chan struct{}
}

type uartFrame struct {
	slave   uint8
	payload []byte
}

// NewUART wraps an already-constructed serialport.Port. Callers obtain
// port via serialport.NativePort for real hardware or serialport.MockPort
// for tests.
func NewUART(port serialport.Port, cfg UARTConfig) *UART {
	return &UART{
		port:         port,
		cfg:          cfg,
		input:        fifobuf.New(uartInputBufSize),
		pending:      make(map[byte]chan uartFrame),
		synchronized: true,
	}
}

func (t *UART) Open(ctx context.Context) error {
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.readLoop()
	return nil
}

func (t *UART) Close() error {
	if t.stopCh != nil {
		close(t.stopCh)
		<-t.doneCh
		t.stopCh = nil
	}
	return t.port.Close()
}

// Write sends one frame and does not wait for a response, per the
// Transport contract's "no expected response" Write semantics. A transient
// bus error on the underlying serial write is retried per withRetry.
func (t *UART) Write(ctx context.Context, slaveAddr uint8, data []byte) error {
	return withRetry(ctx, &t.statsTracker, func() error {
		return t.sendFrame(slaveAddr, data)
	})
}

// Read requests n bytes from slaveAddr by sending an empty-payload frame
// tagged with a correlation cookie and waiting for the echoed response.
func (t *UART) Read(ctx context.Context, slaveAddr uint8, n int) ([]byte, error) {
	var resp []byte
	err := withRetry(ctx, &t.statsTracker, func() error {
		r, err := t.request(ctx, slaveAddr, nil, n)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// WriteRead sends write tagged with a correlation cookie, then waits for
// the response frame echoing that cookie as its first payload byte
// (§4.1). A transient bus error on the request's underlying write is
// retried per withRetry; a timeout or cookie mismatch is not.
func (t *UART) WriteRead(ctx context.Context, slaveAddr uint8, write []byte, readLen int) ([]byte, error) {
	var resp []byte
	err := withRetry(ctx, &t.statsTracker, func() error {
		r, err := t.request(ctx, slaveAddr, write, readLen)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *UART) request(ctx context.Context, slaveAddr uint8, write []byte, readLen int) ([]byte, error) {
	cookie, ch := t.registerCookie()
	defer t.unregisterCookie(cookie)

	payload := append(append([]byte{}, write...), cookie)
	if err := t.sendFrame(slaveAddr, payload); err != nil {
		return nil, err
	}

	timeout := t.cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frame := <-ch:
		if len(frame.payload) < 1 || frame.payload[0] != cookie {
			return nil, phoenixerr.New(phoenixerr.KindTransportError, "uart.request", "cookie mismatch")
		}
		body := frame.payload[1:]
		if len(body) != readLen {
			return nil, phoenixerr.New(phoenixerr.KindTransportError, "uart.request", "short response")
		}
		return body, nil
	case <-timer.C:
		t.recordError()
		return nil, phoenixerr.NewTimeout("uart.request")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *UART) registerCookie() (byte, chan uartFrame) {
	t.pendMu.Lock()
	defer t.pendMu.Unlock()
	t.cookie++
	cookie := t.cookie
	ch := make(chan uartFrame, 1)
	t.pending[cookie] = ch
	return cookie, ch
}

func (t *UART) unregisterCookie(cookie byte) {
	t.pendMu.Lock()
	defer t.pendMu.Unlock()
	delete(t.pending, cookie)
}

func (t *UART) sendFrame(slaveAddr uint8, payload []byte) error {
	if len(payload) > uartMaxPayload {
		return phoenixerr.NewInvalidArgument("uart.sendFrame", "payload exceeds 255 bytes")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	frame := make([]byte, 0, uartHeaderSize+len(payload)+uartTrailerSize)
	frame = append(frame, uartSync, byte(len(payload)), slaveAddr)
	frame = append(frame, payload...)
	frame = append(frame, crc8(frame[1:]))

	n, err := t.port.Write(frame)
	if err != nil {
		t.recordError()
		return phoenixerr.NewTransportError("uart.sendFrame", phoenixerr.TransportBusError, t.cfg.PortName, err)
	}
	if n != len(frame) {
		t.recordError()
		return phoenixerr.NewTransportError("uart.sendFrame", phoenixerr.TransportFramingError, "incomplete write", nil)
	}
	t.recordTx(len(payload))
	return nil
}

// readLoop continuously reads from the serial port and dispatches
// complete frames to their correlation channel.
func (t *UART) readLoop() {
	defer close(t.doneCh)

	buf := make([]byte, 256)
	for {
		select {
		case <-t.stopCh:
			return
		default:
		}

		n, err := t.port.Read(buf)
		if err != nil {
			if err == io.EOF {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if n > 0 {
			t.input.Write(buf[:n])
			t.processFrames()
		}
	}
}

func (t *UART) processFrames() {
	data := t.input.Data()
	consumed := 0

	for len(data) > 0 {
		if !t.synchronized {
			pos := indexByte(data, uartSync)
			if pos < 0 {
				consumed += len(data)
				data = nil
				break
			}
			data = data[pos+1:]
			consumed += pos + 1
			t.synchronized = true
			continue
		}

		if data[0] == uartSync {
			data = data[1:]
			consumed++
			continue
		}

		// SYNC has already been stripped above, so what remains in data
		// is LEN | SLAVE | PAYLOAD[LEN] | CRC8 — one byte short of
		// uartHeaderSize.
		const remainingHeaderSize = uartHeaderSize - 1
		if len(data) < remainingHeaderSize {
			break
		}
		payloadLen := int(data[0])
		frameLen := remainingHeaderSize + payloadLen + uartTrailerSize
		if len(data) < frameLen {
			break
		}

		body := data[:frameLen-uartTrailerSize]
		gotCRC := data[frameLen-uartTrailerSize]
		if crc8(body) != gotCRC {
			t.synchronized = false
			continue
		}

		slave := data[1]
		payload := make([]byte, payloadLen)
		copy(payload, data[remainingHeaderSize:remainingHeaderSize+payloadLen])

		data = data[frameLen:]
		consumed += frameLen

		t.dispatch(uartFrame{slave: slave, payload: payload})
	}

	if consumed > 0 {
		t.input.Pop(consumed)
	}
}

func (t *UART) dispatch(frame uartFrame) {
	if len(frame.payload) == 0 {
		return
	}
	cookie := frame.payload[0]

	t.pendMu.Lock()
	ch, ok := t.pending[cookie]
	t.pendMu.Unlock()
	if !ok {
		return
	}

	select {
	case ch <- frame:
	default:
	}
}

func (t *UART) Stats() Stats { return t.snapshot() }
func (t *UART) ResetStats()  { t.reset() }

// UARTFactoryConfig is the config value registered under the "uart" name
// in Factory. Port is pre-opened by the caller (serialport.Open for real
// hardware, serialport.NewMockPort for tests) since serialport.Config
// alone doesn't carry the framing timeout.
type UARTFactoryConfig struct {
	Port   serialport.Port
	Config UARTConfig
}

func init() {
	Factory.Register("uart", func(config any) (Transport, error) {
		cfg, ok := config.(UARTFactoryConfig)
		if !ok {
			return nil, phoenixerr.NewInvalidArgument("transport.uart", fmt.Sprintf("uart constructor expects UARTFactoryConfig, got %T", config))
		}
		return NewUART(cfg.Port, cfg.Config), nil
	})
}

func indexByte(data []byte, b byte) int {
	for i, v := range data {
		if v == b {
			return i
		}
	}
	return -1
}

// crc8 is the same SMBus PEC polynomial used for the I2C wire (§4.2),
// reused here as the UART frame trailer per §4.1.
func crc8(data []byte) byte {
	crc := byte(0)
	for _, b := range data {
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
