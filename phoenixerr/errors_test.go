package phoenixerr

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewPecError("framing.ReadU32", 0x48, 0x49)

	if !errors.Is(err, New(KindPecError, "", "")) {
		t.Errorf("expected errors.Is to match on Kind, got false for %v", err)
	}

	if errors.Is(err, New(KindTimeout, "", "")) {
		t.Error("expected errors.Is to not match a different Kind")
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("short read")
	err := Wrap(KindTransportError, "transport.Read", "i2c bus error", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected Unwrap to expose the wrapped cause")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := NewInvalidArgument("regaccess.WriteU32", "address 0x0001 is not 4-byte aligned")
	msg := err.Error()

	if msg == "" {
		t.Fatal("expected non-empty message")
	}
	if !strings.Contains(msg, "regaccess.WriteU32") {
		t.Errorf("message %q does not include the op", msg)
	}
	t.Logf("message: %s", msg)
}
