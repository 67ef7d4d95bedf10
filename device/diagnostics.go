package device

import (
	"context"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

// DiagnosticSummary aggregates status, configuration, and PRBS state into
// one snapshot for a support dump (SPEC_FULL.md §12 supplemented feature).
type DiagnosticSummary struct {
	Status        DeviceStatus
	Configuration Configuration
	PRBSState     PRBSState
}

// Diagnose reads status and configuration under one lock hold so the
// summary reflects one consistent point in time.
func (d *Device) Diagnose(ctx context.Context) (DiagnosticSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, err := d.getStatusLocked(ctx)
	if err != nil {
		return DiagnosticSummary{}, err
	}
	config, err := d.getConfigurationLocked(ctx)
	if err != nil {
		return DiagnosticSummary{}, err
	}

	return DiagnosticSummary{
		Status:        status,
		Configuration: config,
		PRBSState:     d.prbsState,
	}, nil
}

// ELA/BELA/LinkCAT are firmware-unsupported in the reference system; their
// façade operations always surface UnsupportedOperation (§4.5 Non-goals,
// §9 open question).

// ELACapture is the shape a future firmware revision's embedded-logic-
// analyzer capture would take; no wire protocol exists yet.
type ELACapture struct {
	TriggerCondition string
	SampleDepth      uint32
}

func (d *Device) StartELACapture(ctx context.Context, _ ELACapture) error {
	return phoenixerr.NewUnsupportedOperation("device.StartELACapture")
}

// BELAResult is the shape a future firmware revision's bit-error-locating-
// analyzer result would take; no wire protocol exists yet.
type BELAResult struct {
	LaneNumber int
	ErrorMap   []byte
}

func (d *Device) GetBELAResult(ctx context.Context, lane int) (BELAResult, error) {
	return BELAResult{}, phoenixerr.NewUnsupportedOperation("device.GetBELAResult")
}

// LinkCATReport is the shape a future firmware revision's link channel-
// analysis-tool report would take; no wire protocol exists yet.
type LinkCATReport struct {
	InsertionLossDb float64
	ReturnLossDb    float64
}

func (d *Device) RunLinkCAT(ctx context.Context) (LinkCATReport, error) {
	return LinkCATReport{}, phoenixerr.NewUnsupportedOperation("device.RunLinkCAT")
}
