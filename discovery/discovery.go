// Package discovery implements the bus-scan probe (§4.6): given an open
// transport and a set of candidate slave addresses, it finds which ones
// respond as genuine retimers and returns their identities.
package discovery

import (
	"context"
	"errors"
	"sort"

	"github.com/phoenix-retimer/phoenix/device"
	"github.com/phoenix-retimer/phoenix/framing"
	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regaccess"
	"github.com/phoenix-retimer/phoenix/regmap"
	"github.com/phoenix-retimer/phoenix/transport"
)

// Discover probes each address in sorted order over t: it reads
// GLOBAL_PARAM1 and checks vendor_id; on a match it reads XAGENT_INFO_0
// for firmware/product ID and builds a device.Identity. An address that
// NAKs or fails PEC is skipped silently; any other transport error
// propagates and aborts the scan (§4.6).
//
// The reference description opens and closes a transient per-address
// transport; here t is a single already-open Transport and the slave
// address travels per-call instead, since transport.Transport already
// multiplexes by address argument — the externally observable probe
// semantics (what gets read, what gets skipped, what aborts) are
// unchanged.
func Discover(ctx context.Context, t transport.Transport, addresses []uint8) ([]device.Identity, error) {
	sorted := make([]uint8, len(addresses))
	copy(sorted, addresses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var found []device.Identity
	for _, addr := range sorted {
		identity, ok, err := probe(ctx, t, addr)
		if err != nil {
			return found, err
		}
		if ok {
			found = append(found, identity)
		}
	}
	return found, nil
}

func probe(ctx context.Context, t transport.Transport, addr uint8) (device.Identity, bool, error) {
	access := regaccess.New(framing.New(t, addr))

	param1Addr := regmap.Registers["GLOBAL_PARAM1"].Address
	raw, err := access.ReadU32(ctx, param1Addr)
	if err != nil {
		if skip(err) {
			return device.Identity{}, false, nil
		}
		return device.Identity{}, false, err
	}

	param1 := regmap.Registers["GLOBAL_PARAM1"]
	vendorID := uint16(param1.Extract32(raw, "VENDOR_ID"))
	if vendorID != device.BroadcomVendorID {
		return device.Identity{}, false, nil
	}

	infoReg := regmap.Registers["XAGENT_INFO_0"]
	infoRaw, err := access.ReadU32(ctx, infoReg.Address)
	if err != nil {
		if skip(err) {
			return device.Identity{}, false, nil
		}
		return device.Identity{}, false, err
	}

	identity := device.Identity{
		VendorID:      vendorID,
		DeviceID:      uint8(param1.Extract32(raw, "DEVICE_ID")),
		RevisionID:    uint8(param1.Extract32(raw, "REVISION_ID")),
		FirmwareMajor: uint8(infoReg.Extract32(infoRaw, "FW_MAJOR")),
		FirmwareMinor: uint8(infoReg.Extract32(infoRaw, "FW_MINOR")),
		ProductHandle: infoReg.Extract32(infoRaw, "PRODUCT_ID"),
		DeviceAddress: addr,
	}
	if _, isUART := t.(*transport.UART); isUART {
		identity.DeviceAddress = 0
	}
	return identity, true, nil
}

// skip reports whether err is a NAK or PEC failure, both of which cause a
// silent skip rather than aborting the scan (§4.6). NAK may arrive
// wrapped one level deep (framing wraps the transport's error), so this
// walks the Unwrap chain rather than checking only the outermost error.
func skip(err error) bool {
	var e *phoenixerr.Error
	for target := err; target != nil; target = errors.Unwrap(target) {
		if errors.As(target, &e) {
			if e.Kind == phoenixerr.KindPecError {
				return true
			}
			if e.Kind == phoenixerr.KindTransportError && e.TransportKind == phoenixerr.TransportNak {
				return true
			}
		}
	}
	return false
}
