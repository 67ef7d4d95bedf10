// Package device implements the device façade (§4.5): it composes
// register reads/writes exposed by regaccess into the high-level
// operations external surfaces call — status aggregation, configuration
// RMW, reset sequencing, PRBS lifecycle, and eye-diagram capture. Every
// operation on a Device is serialized by a per-device lock, following the
// per-device-serialization design note: no finer-grained locking around
// individual register reads, since that would break the atomicity
// guarantee a concurrent get_status/set_configuration pair depends on.
package device

import "github.com/phoenix-retimer/phoenix/regmap"

// Identity is the immutable device identification captured at connect
// time (§3 DeviceIdentity).
type Identity struct {
	VendorID      uint16
	DeviceID      uint8
	RevisionID    uint8
	FirmwareMajor uint8
	FirmwareMinor uint8
	MaxSpeed      regmap.DataRate
	ProductHandle uint32
	DeviceAddress uint8 // I2C only; 0 for UART
}

// BroadcomVendorID is the expected GLOBAL_PARAM1.VENDOR_ID value for a
// genuine Broadcom retimer (§4.6).
const BroadcomVendorID uint16 = 0x14E4
