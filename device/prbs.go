package device

import (
	"context"
	"fmt"
	"time"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regmap"
)

// PRBSState is the lifecycle state of a device's PRBS test engine (§4.5).
type PRBSState int

const (
	PRBSIdle PRBSState = iota
	PRBSConfigured
	PRBSRunning
	PRBSStopped
)

func (s PRBSState) String() string {
	switch s {
	case PRBSIdle:
		return "IDLE"
	case PRBSConfigured:
		return "CONFIGURED"
	case PRBSRunning:
		return "RUNNING"
	case PRBSStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// PRBSConfig selects the pattern, rate, lanes, and target sample count for
// a test run (§3 PRBSConfig).
type PRBSConfig struct {
	Pattern regmap.PRBSPattern
	Rate    regmap.DataRate
	Lanes   []int
	Samples uint64
}

// PRBSLaneStatus is one lane's live test progress.
type PRBSLaneStatus struct {
	LaneNumber   int
	SyncAcquired bool
	TestComplete bool
}

// PRBSLaneResult is one lane's accumulated bit/error counts and the
// formatted BER string (§4.5 get_prbs_results).
type PRBSLaneResult struct {
	LaneNumber int
	BitCount   uint64
	ErrorCount uint64
	BERString  string
}

const prbsStartConfirmTimeout = 500 * time.Millisecond

// StartPRBS writes per-lane generator enable, pattern select, and sample
// count, then asserts the global start bit and confirms it latched within
// 500 ms. Only legal from Idle or Stopped (§4.5).
func (d *Device) StartPRBS(ctx context.Context, config PRBSConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prbsState != PRBSIdle && d.prbsState != PRBSStopped {
		return phoenixerr.NewInvalidArgument("device.StartPRBS", fmt.Sprintf("cannot start from state %s", d.prbsState))
	}

	for _, lane := range config.Lanes {
		ctrlReg := regmap.PRBSLaneCtrlRegister(lane)
		ctrl := ctrlReg.Insert32(0, "PATTERN", uint32(config.Pattern))
		ctrl = ctrlReg.Insert32(ctrl, "ENABLE", 1)
		if err := d.access.WriteU32(ctx, ctrlReg.Address, ctrl); err != nil {
			return opErr("device.StartPRBS", err)
		}
		if err := d.access.WriteU32(ctx, regmap.PRBSSampleCountAddress(lane), uint32(config.Samples)); err != nil {
			return opErr("device.StartPRBS", err)
		}
	}
	d.prbsConfig = config
	d.prbsState = PRBSConfigured

	globalReg := regmap.Registers["PRBS_GLOBAL_CTRL"]
	if err := d.access.WriteU32(ctx, globalReg.Address, globalReg.Insert32(0, "START", 1)); err != nil {
		return opErr("device.StartPRBS", err)
	}

	deadline := time.Now().Add(prbsStartConfirmTimeout)
	for {
		raw, err := d.access.ReadU32(ctx, globalReg.Address)
		if err == nil && globalReg.Extract32(raw, "START") != 0 {
			d.prbsState = PRBSRunning
			return nil
		}
		if time.Now().After(deadline) {
			return phoenixerr.NewTimeout("device.StartPRBS")
		}
		if err := sleepCtx(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
}

// GetPRBSStatus reports the current state and per-lane sync/completion
// flags. Allowed in any state (§4.5).
func (d *Device) GetPRBSStatus(ctx context.Context) (PRBSState, []PRBSLaneStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prbsState == PRBSIdle {
		return PRBSIdle, nil, nil
	}

	statuses := make([]PRBSLaneStatus, 0, len(d.prbsConfig.Lanes))
	for _, lane := range d.prbsConfig.Lanes {
		reg := regmap.PRBSLaneStatusRegister(lane)
		raw, err := d.access.ReadU32(ctx, reg.Address)
		if err != nil {
			return d.prbsState, nil, opErr("device.GetPRBSStatus", err)
		}
		statuses = append(statuses, PRBSLaneStatus{
			LaneNumber:   lane,
			SyncAcquired: reg.Extract32(raw, "SYNC_ACQUIRED") != 0,
			TestComplete: reg.Extract32(raw, "TEST_COMPLETE") != 0,
		})
	}
	return d.prbsState, statuses, nil
}

// GetPRBSResults reads per-lane bit/error counts. Only legal from Running
// or Stopped (§4.5, §8).
func (d *Device) GetPRBSResults(ctx context.Context) ([]PRBSLaneResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prbsState != PRBSRunning && d.prbsState != PRBSStopped {
		return nil, phoenixerr.NewInvalidArgument("device.GetPRBSResults", "prbs not started")
	}

	results := make([]PRBSLaneResult, 0, len(d.prbsConfig.Lanes))
	for _, lane := range d.prbsConfig.Lanes {
		bitCount, err := d.readU64(ctx, regmap.PRBSBitCountLoAddress(lane), regmap.PRBSBitCountHiAddress(lane))
		if err != nil {
			return nil, opErr("device.GetPRBSResults", err)
		}
		errorCount, err := d.readU64(ctx, regmap.PRBSErrorCountLoAddress(lane), regmap.PRBSErrorCountHiAddress(lane))
		if err != nil {
			return nil, opErr("device.GetPRBSResults", err)
		}
		results = append(results, PRBSLaneResult{
			LaneNumber: lane,
			BitCount:   bitCount,
			ErrorCount: errorCount,
			BERString:  formatBER(errorCount, bitCount),
		})
	}
	return results, nil
}

// StopPRBS clears the global start bit. Only legal from Running (§4.5).
func (d *Device) StopPRBS(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prbsState != PRBSRunning {
		return phoenixerr.NewInvalidArgument("device.StopPRBS", fmt.Sprintf("cannot stop from state %s", d.prbsState))
	}

	reg := regmap.Registers["PRBS_GLOBAL_CTRL"]
	if err := d.access.WriteU32(ctx, reg.Address, reg.Insert32(0, "START", 0)); err != nil {
		return opErr("device.StopPRBS", err)
	}
	d.prbsState = PRBSStopped
	return nil
}

func (d *Device) readU64(ctx context.Context, loAddr, hiAddr uint32) (uint64, error) {
	lo, err := d.access.ReadU32(ctx, loAddr)
	if err != nil {
		return 0, err
	}
	hi, err := d.access.ReadU32(ctx, hiAddr)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// formatBER renders error_count/bit_count as 3-significant-figure
// scientific notation, or "< 1e-15" when no errors were observed (§4.5).
func formatBER(errorCount, bitCount uint64) string {
	if errorCount == 0 {
		return "< 1e-15"
	}
	ber := float64(errorCount) / float64(bitCount)
	return fmt.Sprintf("%.2e", ber)
}
