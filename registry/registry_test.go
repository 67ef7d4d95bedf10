package registry

import (
	"context"
	"testing"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regmap"
	"github.com/phoenix-retimer/phoenix/transport"
)

func seedMock(mock *transport.Mock) {
	param1 := regmap.Registers["GLOBAL_PARAM1"]
	mock.SetRegister(param1.Address, 0x14E40201)
	info := regmap.Registers["XAGENT_INFO_0"]
	mock.SetRegister(info.Address, 0xABCD0123)
}

func TestConnectAllocatesMonotonicHandles(t *testing.T) {
	r := New()
	ctx := context.Background()

	m1 := transport.NewMock()
	seedMock(m1)
	h1, err := r.Connect(ctx, m1, 0x50)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	m2 := transport.NewMock()
	seedMock(m2)
	h2, err := r.Connect(ctx, m2, 0x51)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if h2 <= h1 {
		t.Errorf("handles not monotonic: h1=%d h2=%d", h1, h2)
	}

	dev, err := r.Get(h1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dev.Identity().DeviceAddress != 0x50 {
		t.Errorf("Get(h1) device address = 0x%02X, want 0x50", dev.Identity().DeviceAddress)
	}
}

func TestConnectFailsWhenNoDeviceResponds(t *testing.T) {
	r := New()
	mock := transport.NewMock()
	mock.SetNAK(0x50, true)

	_, err := r.Connect(context.Background(), mock, 0x50)
	if err == nil {
		t.Fatal("expected DeviceNotFound")
	}
	e, ok := err.(*phoenixerr.Error)
	if !ok || e.Kind != phoenixerr.KindDeviceNotFound {
		t.Errorf("err = %v, want DeviceNotFound", err)
	}
}

func TestGetUnknownHandleFails(t *testing.T) {
	r := New()
	_, err := r.Get(Handle(999))
	e, ok := err.(*phoenixerr.Error)
	if !ok || e.Kind != phoenixerr.KindUnknownHandle {
		t.Errorf("err = %v, want UnknownHandle", err)
	}
}

func TestDisconnectRemovesHandle(t *testing.T) {
	r := New()
	mock := transport.NewMock()
	seedMock(mock)

	h, err := r.Connect(context.Background(), mock, 0x50)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := r.Disconnect(h); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if _, err := r.Get(h); err == nil {
		t.Error("expected Get to fail after Disconnect")
	}
	if err := r.Disconnect(h); err == nil {
		t.Error("expected second Disconnect to fail with UnknownHandle")
	}
}
