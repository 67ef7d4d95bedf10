package device

import (
	"context"
	"testing"
	"time"

	"github.com/phoenix-retimer/phoenix/regmap"
)

func TestResetSucceedsOnceDeviceRespondsAgain(t *testing.T) {
	dev, mock := newTestDevice()

	if err := dev.Reset(context.Background(), regmap.ResetSoft); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	ctrl := mock.Register(regmap.Registers["RESET_CTRL"].Address)
	if ctrl != regmap.ResetSoft.BitMask() {
		t.Errorf("RESET_CTRL = 0x%X, want 0x%X", ctrl, regmap.ResetSoft.BitMask())
	}
}

// TestResetSurvivesTransientNAKsDuringPoll exercises the NAK-then-respond
// case called out by the reference test vectors: the device NAKs every
// XAGENT_INFO_0 poll for a while after the reset strobe (it hasn't
// finished coming back up yet), then starts answering again. Reset must
// treat each NAK as "not ready yet" and keep polling rather than failing
// on the first one.
func TestResetSurvivesTransientNAKsDuringPoll(t *testing.T) {
	dev, mock := newTestDevice()
	ctrlAddr := regmap.Registers["RESET_CTRL"].Address

	errCh := make(chan error, 1)
	go func() { errCh <- dev.Reset(context.Background(), regmap.ResetSoft) }()

	// Arm the NAKs only once the strobe has landed, so they hit the polls
	// after the settle wait rather than the strobe write itself.
	deadline := time.Now().Add(resetSettleWait / 2)
	for mock.Register(ctrlAddr) != regmap.ResetSoft.BitMask() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	mock.SetNAKForNext(0x50, 3)

	if err := <-errCh; err != nil {
		t.Fatalf("Reset: %v", err)
	}
}

func TestResetAbortsWhenContextCancelledDuringSettleWait(t *testing.T) {
	dev, _ := newTestDevice()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := dev.Reset(ctx, regmap.ResetHard)
	if err == nil {
		t.Fatal("expected Reset to abort once the context is cancelled")
	}
}
