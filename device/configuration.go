package device

import (
	"context"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regmap"
)

// Configuration is the fully decoded contents of GLOBAL_PARAM0 plus the
// interrupt-enable bits of GLOBAL_INTR (§4.5 get_configuration).
type Configuration struct {
	BifurcationMode regmap.BifurcationMode
	MaxDataRate     regmap.DataRate
	ClockingMode    regmap.ClockingMode
	PortOrientation regmap.PortOrientation
	InterruptEnables InterruptEnables
}

// InterruptEnables mirrors GLOBAL_INTR bits [19:16].
type InterruptEnables struct {
	Global      bool
	EQPhaseErr  bool
	PHYPhaseErr bool
	InternalErr bool
}

// ConfigurationUpdate is a partial patch: a nil field means "unchanged"
// (§3 ConfigurationUpdate).
type ConfigurationUpdate struct {
	BifurcationMode  *regmap.BifurcationMode
	MaxDataRate      *regmap.DataRate
	ClockingMode     *regmap.ClockingMode
	PortOrientation  *regmap.PortOrientation
	InterruptEnables *InterruptEnables
}

// GetConfiguration decodes GLOBAL_PARAM0 (§4.5).
func (d *Device) GetConfiguration(ctx context.Context) (Configuration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.getConfigurationLocked(ctx)
}

func (d *Device) getConfigurationLocked(ctx context.Context) (Configuration, error) {
	reg := regmap.Registers["GLOBAL_PARAM0"]
	raw, err := d.access.ReadU32(ctx, reg.Address)
	if err != nil {
		return Configuration{}, opErr("device.GetConfiguration", err)
	}

	intrReg := regmap.Registers["GLOBAL_INTR"]
	intrRaw, err := d.access.ReadU32(ctx, intrReg.Address)
	if err != nil {
		return Configuration{}, opErr("device.GetConfiguration", err)
	}

	return Configuration{
		BifurcationMode: regmap.BifurcationMode(reg.Extract32(raw, "BIFURCATION")),
		MaxDataRate:     regmap.DataRate(reg.Extract32(raw, "MAX_DATA_RATE")),
		ClockingMode:    regmap.ClockingMode(reg.Extract32(raw, "CLK_MODE")),
		PortOrientation: regmap.PortOrientation(reg.Extract32(raw, "PORT_ORIEN")),
		InterruptEnables: InterruptEnables{
			Global:      intrReg.Extract32(intrRaw, "INTR_EN") != 0,
			EQPhaseErr:  intrReg.Extract32(intrRaw, "EQ_PHASE_ERR_EN") != 0,
			PHYPhaseErr: intrReg.Extract32(intrRaw, "PHY_PHASE_ERR_EN") != 0,
			InternalErr: intrReg.Extract32(intrRaw, "RTMR_INT_ERR_EN") != 0,
		},
	}, nil
}

// SetConfiguration performs a read-modify-write of only the registers
// touched by fields present in update. GLOBAL_PARAM0 and GLOBAL_INTR are
// each written at most once, and only if update names a field belonging
// to that register. Any PEC/transport failure between a register's read
// and its write fails with PartialWrite(addr) — no retry (§4.5).
func (d *Device) SetConfiguration(ctx context.Context, update ConfigurationUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if update.BifurcationMode != nil || update.MaxDataRate != nil || update.ClockingMode != nil || update.PortOrientation != nil {
		if err := d.applyParam0Update(ctx, update); err != nil {
			return err
		}
	}

	if update.InterruptEnables != nil {
		if err := d.applyIntrEnableUpdate(ctx, *update.InterruptEnables); err != nil {
			return err
		}
	}

	return nil
}

func (d *Device) applyParam0Update(ctx context.Context, update ConfigurationUpdate) error {
	reg := regmap.Registers["GLOBAL_PARAM0"]

	raw, err := d.access.ReadU32(ctx, reg.Address)
	if err != nil {
		return opErr("device.SetConfiguration", err)
	}

	if update.BifurcationMode != nil {
		raw = reg.Insert32(raw, "BIFURCATION", uint32(*update.BifurcationMode))
	}
	if update.MaxDataRate != nil {
		raw = reg.Insert32(raw, "MAX_DATA_RATE", uint32(*update.MaxDataRate))
	}
	if update.ClockingMode != nil {
		raw = reg.Insert32(raw, "CLK_MODE", uint32(*update.ClockingMode))
	}
	if update.PortOrientation != nil {
		raw = reg.Insert32(raw, "PORT_ORIEN", uint32(*update.PortOrientation))
	}

	if err := d.access.WriteU32(ctx, reg.Address, raw); err != nil {
		return phoenixerr.NewPartialWrite("device.SetConfiguration", reg.Address)
	}
	return nil
}

func (d *Device) applyIntrEnableUpdate(ctx context.Context, enables InterruptEnables) error {
	reg := regmap.Registers["GLOBAL_INTR"]

	raw, err := d.access.ReadU32(ctx, reg.Address)
	if err != nil {
		return opErr("device.SetConfiguration", err)
	}

	raw = reg.Insert32(raw, "INTR_EN", boolBit(enables.Global))
	raw = reg.Insert32(raw, "EQ_PHASE_ERR_EN", boolBit(enables.EQPhaseErr))
	raw = reg.Insert32(raw, "PHY_PHASE_ERR_EN", boolBit(enables.PHYPhaseErr))
	raw = reg.Insert32(raw, "RTMR_INT_ERR_EN", boolBit(enables.InternalErr))

	if err := d.access.WriteU32(ctx, reg.Address, raw); err != nil {
		return phoenixerr.NewPartialWrite("device.SetConfiguration", reg.Address)
	}
	return nil
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
