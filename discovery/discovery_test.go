package discovery

import (
	"context"
	"testing"

	"github.com/phoenix-retimer/phoenix/device"
	"github.com/phoenix-retimer/phoenix/regmap"
	"github.com/phoenix-retimer/phoenix/transport"
)

func TestDiscoverFindsVendorMatchAndSkipsNak(t *testing.T) {
	mock := transport.NewMock()

	param1 := regmap.Registers["GLOBAL_PARAM1"]
	mock.SetRegister(param1.Address, 0x14E40201)
	info := regmap.Registers["XAGENT_INFO_0"]
	mock.SetRegister(info.Address, 0xABCD0123)
	mock.SetNAK(0x51, true)

	found, err := Discover(context.Background(), mock, []uint8{0x51, 0x50})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("got %d identities, want 1", len(found))
	}

	got := found[0]
	want := device.Identity{
		VendorID:      0x14E4,
		DeviceID:      0x02,
		RevisionID:    0x01,
		FirmwareMajor: 1,
		FirmwareMinor: 0x23,
		ProductHandle: 0xABCD,
		DeviceAddress: 0x50,
	}
	if got != want {
		t.Errorf("identity = %+v, want %+v", got, want)
	}
}

func TestDiscoverSkipsWrongVendor(t *testing.T) {
	mock := transport.NewMock()
	param1 := regmap.Registers["GLOBAL_PARAM1"]
	mock.SetRegister(param1.Address, 0x00010201)

	found, err := Discover(context.Background(), mock, []uint8{0x50})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("got %d identities, want 0", len(found))
	}
}

func TestDiscoverAbortsOnBusError(t *testing.T) {
	mock := transport.NewMock()
	mock.SetBusError(0x50, context.DeadlineExceeded)

	_, err := Discover(context.Background(), mock, []uint8{0x50})
	if err == nil {
		t.Fatal("expected bus error to abort the scan")
	}
}

func TestDiscoverProbesInSortedOrder(t *testing.T) {
	mock := transport.NewMock()
	param1 := regmap.Registers["GLOBAL_PARAM1"]
	mock.SetRegister(param1.Address, 0x14E40000)
	info := regmap.Registers["XAGENT_INFO_0"]
	mock.SetRegister(info.Address, 0x00000000)

	found, err := Discover(context.Background(), mock, []uint8{0x55, 0x10})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("got %d identities, want 2", len(found))
	}
	if found[0].DeviceAddress != 0x10 || found[1].DeviceAddress != 0x55 {
		t.Errorf("identities not in sorted address order: %+v", found)
	}
}
