package device

import (
	"context"
	"time"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regmap"
)

const (
	resetSettleWait  = 200 * time.Millisecond
	resetPollPeriod  = 50 * time.Millisecond
	resetPollTimeout = 5 * time.Second
)

// Reset asserts exactly one RESET_CTRL strobe bit, then waits for the
// device to come back: 200 ms unconditional wait (the device may NAK for
// up to 500 ms right after the strobe), followed by a poll of
// XAGENT_INFO_0 every 50 ms until a read succeeds or 5 s elapse (§4.5).
// SOFT and GLOBAL_SWRST preserve configuration; Reset never re-applies
// any state after the device comes back.
func (d *Device) Reset(ctx context.Context, kind regmap.ResetType) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	reg := regmap.Registers["RESET_CTRL"]
	if err := d.access.WriteU32(ctx, reg.Address, kind.BitMask()); err != nil {
		return opErr("device.Reset", err)
	}

	if err := sleepCtx(ctx, resetSettleWait); err != nil {
		return err
	}

	deadline := time.NewTimer(resetPollTimeout)
	defer deadline.Stop()

	infoAddr := regmap.Registers["XAGENT_INFO_0"].Address
	for {
		_, err := d.access.ReadU32(ctx, infoAddr)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return phoenixerr.NewResetTimeout("device.Reset")
		case <-time.After(resetPollPeriod):
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
