// Package regaccess provides typed, alignment-checked register read/write
// primitives over the framing layer (§4.3).
package regaccess

import (
	"context"

	"github.com/phoenix-retimer/phoenix/framing"
	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

// Accessor wraps a Framer with alignment-checked 16/32-bit register ops.
type Accessor struct {
	Framer *framing.Framer
}

func New(f *framing.Framer) *Accessor {
	return &Accessor{Framer: f}
}

// ReadU16 reads a 16-bit register. addr must be 2-byte aligned.
func (a *Accessor) ReadU16(ctx context.Context, addr uint32) (uint16, error) {
	if addr%2 != 0 {
		return 0, phoenixerr.NewInvalidArgument("regaccess.ReadU16", "address is not 2-byte aligned")
	}
	v, err := a.Framer.ReadRegister(ctx, addr, 2)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// ReadU32 reads a 32-bit register. addr must be 4-byte aligned.
func (a *Accessor) ReadU32(ctx context.Context, addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, phoenixerr.NewInvalidArgument("regaccess.ReadU32", "address is not 4-byte aligned")
	}
	return a.Framer.ReadRegister(ctx, addr, 4)
}

// WriteU16 writes a 16-bit register. addr must be 2-byte aligned.
func (a *Accessor) WriteU16(ctx context.Context, addr uint32, value uint16) error {
	if addr%2 != 0 {
		return phoenixerr.NewInvalidArgument("regaccess.WriteU16", "address is not 2-byte aligned")
	}
	return a.Framer.WriteRegister(ctx, addr, uint32(value), 2)
}

// WriteU32 writes a 32-bit register. addr must be 4-byte aligned.
func (a *Accessor) WriteU32(ctx context.Context, addr uint32, value uint32) error {
	if addr%4 != 0 {
		return phoenixerr.NewInvalidArgument("regaccess.WriteU32", "address is not 4-byte aligned")
	}
	return a.Framer.WriteRegister(ctx, addr, value, 4)
}
