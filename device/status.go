package device

import "github.com/phoenix-retimer/phoenix/regmap"

// VoltageReadings holds the per-rail supply voltages in millivolts.
type VoltageReadings struct {
	DVDD1  uint16
	DVDD2  uint16
	DVDD3  uint16
	DVDD4  uint16
	DVDD5  uint16
	DVDD6  uint16
	DVDDIO uint16
}

// InterruptStatus decodes GLOBAL_INTR's status bits [3:0].
type InterruptStatus struct {
	Global        bool
	EQPhaseErr    bool
	PHYPhaseErr   bool
	InternalErr   bool
}

// LaneStatus is the per-lane training status derived from that lane's
// error-statistics block (§4.5 "per-lane status registers"; the reference
// register map does not name exact bit positions for this field set, so
// bits 0/1/2 are used as a documented, internally-consistent choice — see
// DESIGN.md).
type LaneStatus struct {
	LaneNumber int
	RxDetect   bool
	TxEqDone   bool
	RxEqDone   bool
}

// PortStatus is the decoded LTSSM/link state of one pseudo port (PPA/PPB).
type PortStatus struct {
	CurrentLtssmState regmap.LtssmState
	CurrentLinkSpeed  regmap.DataRate
	CurrentLinkWidth  uint8
	ForwardingMode    bool
	IsLinkUp          bool
	LaneStatus        []LaneStatus
}

// DeviceStatus is a point-in-time snapshot constructed by GetStatus.
type DeviceStatus struct {
	TemperatureC    int16
	Voltages        VoltageReadings
	PPAStatus       PortStatus
	PPBStatus       PortStatus
	InterruptStatus InterruptStatus
	IsHealthy       bool
}
