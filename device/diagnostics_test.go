package device

import (
	"context"
	"testing"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
)

func TestDiagnoseAggregatesStatusAndConfiguration(t *testing.T) {
	dev, mock := newTestDevice()
	seedHealthyStatus(mock)

	summary, err := dev.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !summary.Status.IsHealthy {
		t.Error("expected healthy status in diagnostic summary")
	}
	if summary.PRBSState != PRBSIdle {
		t.Errorf("PRBSState = %s, want IDLE", summary.PRBSState)
	}
}

func TestUnsupportedDiagnosticOperationsReturnUnsupported(t *testing.T) {
	dev, _ := newTestDevice()
	ctx := context.Background()

	if err := dev.StartELACapture(ctx, ELACapture{}); !isUnsupported(err) {
		t.Errorf("StartELACapture err = %v, want UnsupportedOperation", err)
	}
	if _, err := dev.GetBELAResult(ctx, 0); !isUnsupported(err) {
		t.Errorf("GetBELAResult err = %v, want UnsupportedOperation", err)
	}
	if _, err := dev.RunLinkCAT(ctx); !isUnsupported(err) {
		t.Errorf("RunLinkCAT err = %v, want UnsupportedOperation", err)
	}
}

func isUnsupported(err error) bool {
	e, ok := err.(*phoenixerr.Error)
	return ok && e.Kind == phoenixerr.KindUnsupportedOp
}
