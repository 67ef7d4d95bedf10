package device

import (
	"context"
	"sync"

	"github.com/phoenix-retimer/phoenix/framing"
	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regaccess"
	"github.com/phoenix-retimer/phoenix/regmap"
	"github.com/phoenix-retimer/phoenix/transport"
)

// Device is a live handle to one connected retimer: a transport, the
// slave address it was discovered at, its identity, and the lock that
// serializes every register transaction issued through it.
type Device struct {
	transport transport.Transport
	access    *regaccess.Accessor
	identity  Identity

	mu sync.Mutex

	prbsState  PRBSState
	prbsConfig PRBSConfig
}

// New constructs a Device around an already-open Transport. Callers are
// expected to be the registry's Connect path; Device itself never opens
// or closes the transport except via Disconnect.
func New(t transport.Transport, slaveAddress uint8, identity Identity) *Device {
	f := framing.New(t, slaveAddress)
	return &Device{
		transport: t,
		access:    regaccess.New(f),
		identity:  identity,
		prbsState: PRBSIdle,
	}
}

// Identity returns the immutable identity captured at connect time.
func (d *Device) Identity() Identity { return d.identity }

// Disconnect releases the underlying transport. The registry calls this
// from Disconnect(handle); Device itself holds no registry reference.
func (d *Device) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport.Close()
}

// GetStatus aggregates temperature, voltages, interrupt status, and both
// pseudo-port link states into one snapshot (§4.5).
func (d *Device) GetStatus(ctx context.Context) (DeviceStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.getStatusLocked(ctx)
}

func (d *Device) getStatusLocked(ctx context.Context) (DeviceStatus, error) {
	var status DeviceStatus

	tempRaw, err := d.access.ReadU32(ctx, regmap.Registers["TEMPERATURE"].Address)
	if err != nil {
		return DeviceStatus{}, opErr("device.GetStatus", err)
	}
	temp := regmap.Registers["TEMPERATURE"]
	tempValid := temp.Extract32(tempRaw, "VALID") != 0
	if tempValid {
		status.TemperatureC = int16(temp.Extract32(tempRaw, "VALUE"))
	} else {
		status.TemperatureC = 0
	}

	voltages, err := d.readVoltages(ctx)
	if err != nil {
		return DeviceStatus{}, opErr("device.GetStatus", err)
	}
	status.Voltages = voltages

	intrRaw, err := d.access.ReadU32(ctx, regmap.Registers["GLOBAL_INTR"].Address)
	if err != nil {
		return DeviceStatus{}, opErr("device.GetStatus", err)
	}
	intr := regmap.Registers["GLOBAL_INTR"]
	status.InterruptStatus = InterruptStatus{
		Global:      intr.Extract32(intrRaw, "INTR_STS") != 0,
		EQPhaseErr:  intr.Extract32(intrRaw, "EQ_PHASE_ERR_STS") != 0,
		PHYPhaseErr: intr.Extract32(intrRaw, "PHY_PHASE_ERR_STS") != 0,
		InternalErr: intr.Extract32(intrRaw, "RTMR_INT_ERR_STS") != 0,
	}

	lanes, err := d.readLaneStatus(ctx)
	if err != nil {
		return DeviceStatus{}, opErr("device.GetStatus", err)
	}

	ppa, err := d.readPortStatus(ctx, "PPA_LTSSM_STATE", lanes)
	if err != nil {
		return DeviceStatus{}, opErr("device.GetStatus", err)
	}
	status.PPAStatus = ppa

	ppb, err := d.readPortStatus(ctx, "PPB_LTSSM_STATE", lanes)
	if err != nil {
		return DeviceStatus{}, opErr("device.GetStatus", err)
	}
	status.PPBStatus = ppb

	status.IsHealthy = tempValid && !status.InterruptStatus.InternalErr && status.TemperatureC < 100
	return status, nil
}

func (d *Device) readVoltages(ctx context.Context) (VoltageReadings, error) {
	names := [7]string{"VOLTAGE_DVDD1", "VOLTAGE_DVDD2", "VOLTAGE_DVDD3", "VOLTAGE_DVDD4", "VOLTAGE_DVDD5", "VOLTAGE_DVDD6", "VOLTAGE_DVDDIO"}
	var values [7]uint16
	for i, name := range names {
		raw, err := d.access.ReadU32(ctx, regmap.Registers[name].Address)
		if err != nil {
			return VoltageReadings{}, err
		}
		values[i] = uint16(regmap.Registers[name].Extract32(raw, "VALUE"))
	}
	return VoltageReadings{
		DVDD1: values[0], DVDD2: values[1], DVDD3: values[2], DVDD4: values[3],
		DVDD5: values[4], DVDD6: values[5], DVDDIO: values[6],
	}, nil
}

func (d *Device) readLaneStatus(ctx context.Context) ([]LaneStatus, error) {
	lanes := make([]LaneStatus, regmap.LaneCount)
	for lane := 0; lane < regmap.LaneCount; lane++ {
		addr := regmap.ErrorStatAddress(lane)
		raw, err := d.access.ReadU32(ctx, addr)
		if err != nil {
			return nil, err
		}
		lanes[lane] = LaneStatus{
			LaneNumber: lane,
			RxDetect:   raw&0x1 != 0,
			TxEqDone:   raw&0x2 != 0,
			RxEqDone:   raw&0x4 != 0,
		}
	}
	return lanes, nil
}

func (d *Device) readPortStatus(ctx context.Context, registerName string, lanes []LaneStatus) (PortStatus, error) {
	reg := regmap.Registers[registerName]
	raw, err := d.access.ReadU32(ctx, reg.Address)
	if err != nil {
		return PortStatus{}, err
	}

	ltssm := regmap.LtssmState(reg.Extract32(raw, "CURRENT_STATE"))
	forwarding := reg.Extract32(raw, "FORWARDING_MODE") != 0

	return PortStatus{
		CurrentLtssmState: ltssm,
		CurrentLinkSpeed:  regmap.DataRate(reg.Extract32(raw, "LINK_SPEED")),
		CurrentLinkWidth:  uint8(reg.Extract32(raw, "LINK_WIDTH")),
		ForwardingMode:    forwarding,
		IsLinkUp:          forwarding && ltssm == regmap.LtssmFwdForwarding,
		LaneStatus:        lanes,
	}, nil
}

// ReadRegister is a bounds-checked pass-through to regaccess (§4.5).
func (d *Device) ReadRegister(ctx context.Context, addr uint32, widthBits int) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegisterLocked(ctx, addr, widthBits)
}

func (d *Device) readRegisterLocked(ctx context.Context, addr uint32, widthBits int) (uint32, error) {
	switch widthBits {
	case 16:
		v, err := d.access.ReadU16(ctx, addr)
		return uint32(v), err
	case 32:
		return d.access.ReadU32(ctx, addr)
	default:
		return 0, phoenixerr.NewInvalidArgument("device.ReadRegister", "width must be 16 or 32 bits")
	}
}

// WriteRegister is a bounds-checked pass-through to regaccess (§4.5).
func (d *Device) WriteRegister(ctx context.Context, addr uint32, value uint32, widthBits int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRegisterLocked(ctx, addr, value, widthBits)
}

func (d *Device) writeRegisterLocked(ctx context.Context, addr uint32, value uint32, widthBits int) error {
	switch widthBits {
	case 16:
		return d.access.WriteU16(ctx, addr, uint16(value))
	case 32:
		return d.access.WriteU32(ctx, addr, value)
	default:
		return phoenixerr.NewInvalidArgument("device.WriteRegister", "width must be 16 or 32 bits")
	}
}

func opErr(op string, err error) error {
	if e, ok := err.(*phoenixerr.Error); ok {
		if e.Op == "" {
			e.Op = op
			return e
		}
		return &phoenixerr.Error{Kind: e.Kind, Op: op, Message: e.Message, Code: e.Code, Err: e, TransportKind: e.TransportKind}
	}
	return err
}
