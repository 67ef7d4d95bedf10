package device

import (
	"context"
	"testing"

	"github.com/phoenix-retimer/phoenix/regmap"
)

func seedEyeMargins(mock interface {
	SetRegister(addr uint32, value uint32)
}, lane int, which string, left, right, upper, lower int) {
	reg := regmap.EyeMarginRegister(lane, which)
	raw := reg.Insert32(0, "LEFT_MUI", uint32(left))
	raw = reg.Insert32(raw, "RIGHT_MUI", uint32(right))
	raw = reg.Insert32(raw, "UPPER_MV", uint32(upper))
	raw = reg.Insert32(raw, "LOWER_MV", uint32(lower))
	mock.SetRegister(reg.Address, raw)
}

func TestEyeDiagramGen6CapturesThreeEyes(t *testing.T) {
	dev, mock := newTestDevice()
	ctx := context.Background()

	status := regmap.EyeStatusRegister(3)
	mock.SetRegister(status.Address, status.Insert32(0, "CAPTURE_VALID", 1))
	seedEyeMargins(mock, 3, "MIDDLE", 20, 18, 40, 38)
	seedEyeMargins(mock, 3, "LOWER", 12, 10, 22, 20)
	seedEyeMargins(mock, 3, "UPPER", 14, 11, 24, 21)

	capture, err := dev.EyeDiagram(ctx, 3, regmap.Gen6_64G)
	if err != nil {
		t.Fatalf("EyeDiagram: %v", err)
	}
	if !capture.CaptureValid {
		t.Fatal("expected CaptureValid = true")
	}
	if capture.MiddleEye.HorizontalOpeningMui() != 38 {
		t.Errorf("middle horizontal opening = %d, want 38", capture.MiddleEye.HorizontalOpeningMui())
	}
	if capture.LowerEye == nil || capture.UpperEye == nil {
		t.Fatal("expected LowerEye and UpperEye at Gen6_64G")
	}
	if capture.LowerEye.VerticalOpeningMv() != 42 {
		t.Errorf("lower vertical opening = %d, want 42", capture.LowerEye.VerticalOpeningMv())
	}
}

func TestEyeDiagramBelowGen6OmitsLowerUpperEyes(t *testing.T) {
	dev, mock := newTestDevice()
	ctx := context.Background()

	status := regmap.EyeStatusRegister(0)
	mock.SetRegister(status.Address, status.Insert32(0, "CAPTURE_VALID", 1))
	seedEyeMargins(mock, 0, "MIDDLE", 30, 28, 60, 58)

	capture, err := dev.EyeDiagram(ctx, 0, regmap.Gen5_32G)
	if err != nil {
		t.Fatalf("EyeDiagram: %v", err)
	}
	if capture.LowerEye != nil || capture.UpperEye != nil {
		t.Error("expected LowerEye and UpperEye to be nil below Gen6_64G")
	}
}
