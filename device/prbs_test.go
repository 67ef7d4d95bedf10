package device

import (
	"context"
	"testing"

	"github.com/phoenix-retimer/phoenix/regmap"
)

func TestPRBSLifecycleStartStopResults(t *testing.T) {
	dev, mock := newTestDevice()
	ctx := context.Background()

	config := PRBSConfig{Pattern: regmap.PRBS31, Rate: regmap.Gen6_64G, Lanes: []int{0, 1}, Samples: 1048576}
	if err := dev.StartPRBS(ctx, config); err != nil {
		t.Fatalf("StartPRBS: %v", err)
	}
	if dev.prbsState != PRBSRunning {
		t.Fatalf("state = %s, want RUNNING", dev.prbsState)
	}

	mock.SetRegister(regmap.PRBSBitCountLoAddress(0), 1048576)
	mock.SetRegister(regmap.PRBSBitCountHiAddress(0), 0)
	mock.SetRegister(regmap.PRBSErrorCountLoAddress(0), 1)
	mock.SetRegister(regmap.PRBSErrorCountHiAddress(0), 0)
	mock.SetRegister(regmap.PRBSBitCountLoAddress(1), 1048576)
	mock.SetRegister(regmap.PRBSErrorCountLoAddress(1), 0)

	results, err := dev.GetPRBSResults(ctx)
	if err != nil {
		t.Fatalf("GetPRBSResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].BERString != "9.54e-07" {
		t.Errorf("lane 0 BER = %q, want 9.54e-07", results[0].BERString)
	}
	if results[1].BERString != "< 1e-15" {
		t.Errorf("lane 1 BER = %q, want \"< 1e-15\"", results[1].BERString)
	}

	if err := dev.StopPRBS(ctx); err != nil {
		t.Fatalf("StopPRBS: %v", err)
	}
	if dev.prbsState != PRBSStopped {
		t.Fatalf("state = %s, want STOPPED", dev.prbsState)
	}
}

func TestStartPRBSRejectedFromRunningState(t *testing.T) {
	dev, _ := newTestDevice()
	ctx := context.Background()

	config := PRBSConfig{Pattern: regmap.PRBS31, Lanes: []int{0}, Samples: 1024}
	if err := dev.StartPRBS(ctx, config); err != nil {
		t.Fatalf("StartPRBS: %v", err)
	}
	if err := dev.StartPRBS(ctx, config); err == nil {
		t.Fatal("expected InvalidArgument when starting from RUNNING")
	}
}

func TestGetPRBSResultsRejectedBeforeStart(t *testing.T) {
	dev, _ := newTestDevice()
	if _, err := dev.GetPRBSResults(context.Background()); err == nil {
		t.Fatal("expected InvalidArgument when PRBS was never started")
	}
}

func TestStopPRBSRejectedWhenNotRunning(t *testing.T) {
	dev, _ := newTestDevice()
	if err := dev.StopPRBS(context.Background()); err == nil {
		t.Fatal("expected InvalidArgument when stopping from IDLE")
	}
}

func TestGetPRBSStatusIdleReturnsNoLanes(t *testing.T) {
	dev, _ := newTestDevice()
	state, statuses, err := dev.GetPRBSStatus(context.Background())
	if err != nil {
		t.Fatalf("GetPRBSStatus: %v", err)
	}
	if state != PRBSIdle {
		t.Errorf("state = %s, want IDLE", state)
	}
	if statuses != nil {
		t.Errorf("expected nil statuses, got %v", statuses)
	}
}
