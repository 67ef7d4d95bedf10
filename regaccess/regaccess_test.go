package regaccess

import (
	"context"
	"testing"

	"github.com/phoenix-retimer/phoenix/framing"
	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/transport"
)

func newAccessor() (*Accessor, *transport.Mock) {
	mock := transport.NewMock()
	f := framing.New(mock, 0x50)
	return New(f), mock
}

func TestWriteU32MisalignedFails(t *testing.T) {
	a, _ := newAccessor()

	err := a.WriteU32(context.Background(), 0x0001, 0x1234)
	if err == nil {
		t.Fatal("expected InvalidArgument for misaligned address")
	}
	e, ok := err.(*phoenixerr.Error)
	if !ok || e.Kind != phoenixerr.KindInvalidArgument {
		t.Errorf("expected KindInvalidArgument, got %v", err)
	}
}

func TestReadU16MisalignedFails(t *testing.T) {
	a, _ := newAccessor()

	_, err := a.ReadU16(context.Background(), 0x0001)
	if err == nil {
		t.Fatal("expected InvalidArgument for misaligned address")
	}
}

func TestWriteThenReadU32RoundTrips(t *testing.T) {
	a, _ := newAccessor()
	ctx := context.Background()

	if err := a.WriteU32(ctx, 0x0004, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	got, err := a.ReadU32(ctx, 0x0004)
	if err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got 0x%08X, want 0xDEADBEEF", got)
	}
}

func TestWriteThenReadU16MasksToWidth(t *testing.T) {
	a, mock := newAccessor()
	ctx := context.Background()

	if err := a.WriteU16(ctx, 0x0100, 0xBEEF); err != nil {
		t.Fatalf("WriteU16 failed: %v", err)
	}
	got, err := a.ReadU16(ctx, 0x0100)
	if err != nil {
		t.Fatalf("ReadU16 failed: %v", err)
	}
	if got != 0xBEEF {
		t.Errorf("got 0x%04X, want 0xBEEF", got)
	}
	if stored := mock.Register(0x0100); stored != 0xBEEF {
		t.Errorf("stored register = 0x%X, want 0xBEEF", stored)
	}
}
