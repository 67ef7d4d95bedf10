// Package framing implements the SMBus command/PEC layer: it turns
// (command, register address, width, payload) into the exact byte
// sequences the spec's wire format requires and verifies the PEC trailer
// on every response phase. It is transport-agnostic — it calls the
// transport.Transport capability set and does not care whether the bytes
// ultimately travel over I2C or a UART frame.
package framing

import (
	"context"
	"encoding/binary"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/transport"
)

// Command is a one-byte SMBus command code (§4.2, §6).
type Command byte

const (
	CmdRegRead16  Command = 0x03
	CmdRegRead32  Command = 0x05
	CmdRegWrite16 Command = 0x13
	CmdRegWrite32 Command = 0x15
)

// Framer issues SMBus command frames over a Transport and validates PEC.
type Framer struct {
	Transport  transport.Transport
	SlaveAddr  uint8
}

func New(t transport.Transport, slaveAddr uint8) *Framer {
	return &Framer{Transport: t, SlaveAddr: slaveAddr}
}

// ReadRegister issues a REG_READ_16 or REG_READ_32 and returns the raw
// little-endian value. width must be 2 or 4.
func (f *Framer) ReadRegister(ctx context.Context, addr uint32, width int) (uint32, error) {
	cmd, err := readCommandFor(width)
	if err != nil {
		return 0, err
	}

	writePayload := encodeAddress(addr)
	writePEC := ComputeFramePEC(f.SlaveAddr, WriteBit, append([]byte{byte(cmd)}, writePayload...))
	writeBytes := append([]byte{byte(cmd)}, writePayload...)
	writeBytes = append(writeBytes, writePEC)

	respBytes, err := f.Transport.WriteRead(ctx, f.SlaveAddr, writeBytes, width+1)
	if err != nil {
		return 0, phoenixerr.Wrap(phoenixerr.KindTransportError, "framing.ReadRegister", "write_read failed", err)
	}
	if len(respBytes) != width+1 {
		return 0, phoenixerr.New(phoenixerr.KindTransportError, "framing.ReadRegister", "short response")
	}

	data := respBytes[:width]
	gotPEC := respBytes[width]
	wantPEC := ComputeFramePEC(f.SlaveAddr, ReadBit, data)
	if gotPEC != wantPEC {
		return 0, phoenixerr.NewPecError("framing.ReadRegister", wantPEC, gotPEC)
	}

	return decodeLE(data), nil
}

// WriteRegister issues a REG_WRITE_16 or REG_WRITE_32 with value on the
// wire in little-endian order.
func (f *Framer) WriteRegister(ctx context.Context, addr uint32, value uint32, width int) error {
	cmd, err := writeCommandFor(width)
	if err != nil {
		return err
	}

	body := append(encodeAddress(addr), encodeLE(value, width)...)
	pec := ComputeFramePEC(f.SlaveAddr, WriteBit, append([]byte{byte(cmd)}, body...))

	frame := append([]byte{byte(cmd)}, body...)
	frame = append(frame, pec)

	if err := f.Transport.Write(ctx, f.SlaveAddr, frame); err != nil {
		return phoenixerr.Wrap(phoenixerr.KindTransportError, "framing.WriteRegister", "write failed", err)
	}
	return nil
}

func readCommandFor(width int) (Command, error) {
	switch width {
	case 2:
		return CmdRegRead16, nil
	case 4:
		return CmdRegRead32, nil
	default:
		return 0, phoenixerr.NewInvalidArgument("framing.ReadRegister", "width must be 2 or 4 bytes")
	}
}

func writeCommandFor(width int) (Command, error) {
	switch width {
	case 2:
		return CmdRegWrite16, nil
	case 4:
		return CmdRegWrite32, nil
	default:
		return 0, phoenixerr.NewInvalidArgument("framing.WriteRegister", "width must be 2 or 4 bytes")
	}
}

// encodeAddress places the 32-bit register address on the wire as four
// little-endian bytes (§4.2: ADDR_B0..ADDR_B3), regardless of register
// width — the wire always carries a 4-byte address.
func encodeAddress(addr uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, addr)
	return b
}

func encodeLE(value uint32, width int) []byte {
	b := make([]byte, width)
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(b, value)
	}
	return b
}

func decodeLE(data []byte) uint32 {
	switch len(data) {
	case 2:
		return uint32(binary.LittleEndian.Uint16(data))
	case 4:
		return binary.LittleEndian.Uint32(data)
	default:
		return 0
	}
}
