package device

import (
	"context"
	"time"

	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/regmap"
)

// EyeMargins is the four-sided margin of one PAM4 (or NRZ middle) eye
// opening (§4.5 eye_diagram).
type EyeMargins struct {
	LeftMarginMui  int
	RightMarginMui int
	UpperMarginMv  int
	LowerMarginMv  int
}

// HorizontalOpeningMui is left + right margin.
func (m EyeMargins) HorizontalOpeningMui() int { return m.LeftMarginMui + m.RightMarginMui }

// VerticalOpeningMv is upper + lower margin.
func (m EyeMargins) VerticalOpeningMv() int { return m.UpperMarginMv + m.LowerMarginMv }

// EyeCapture is the result of a single-shot eye-diagram capture. LowerEye
// and UpperEye are present only when the capture was taken at GEN6_64G,
// where PAM4 signaling creates three eye openings (§4.5).
type EyeCapture struct {
	LaneNumber   int
	CaptureValid bool
	MiddleEye    EyeMargins
	LowerEye     *EyeMargins
	UpperEye     *EyeMargins
}

const eyeCaptureTimeout = 10 * time.Second
const eyeCapturePollPeriod = 50 * time.Millisecond

// EyeDiagram triggers a single-shot capture on lane at rate and blocks up
// to 10 s for capture_valid (§4.5).
func (d *Device) EyeDiagram(ctx context.Context, lane int, rate regmap.DataRate) (EyeCapture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctrl := regmap.EyeCtrlRegister(lane)
	raw := ctrl.Insert32(0, "RATE", uint32(rate))
	raw = ctrl.Insert32(raw, "TRIGGER", 1)
	if err := d.access.WriteU32(ctx, ctrl.Address, raw); err != nil {
		return EyeCapture{}, opErr("device.EyeDiagram", err)
	}

	status := regmap.EyeStatusRegister(lane)
	deadline := time.Now().Add(eyeCaptureTimeout)
	for {
		statusRaw, err := d.access.ReadU32(ctx, status.Address)
		if err == nil && status.Extract32(statusRaw, "CAPTURE_VALID") != 0 {
			break
		}
		if time.Now().After(deadline) {
			return EyeCapture{}, phoenixerr.NewTimeout("device.EyeDiagram")
		}
		if err := sleepCtx(ctx, eyeCapturePollPeriod); err != nil {
			return EyeCapture{}, err
		}
	}

	middle, err := d.readEyeMargins(ctx, lane, "MIDDLE")
	if err != nil {
		return EyeCapture{}, opErr("device.EyeDiagram", err)
	}

	capture := EyeCapture{LaneNumber: lane, CaptureValid: true, MiddleEye: middle}

	if rate == regmap.Gen6_64G {
		lower, err := d.readEyeMargins(ctx, lane, "LOWER")
		if err != nil {
			return EyeCapture{}, opErr("device.EyeDiagram", err)
		}
		upper, err := d.readEyeMargins(ctx, lane, "UPPER")
		if err != nil {
			return EyeCapture{}, opErr("device.EyeDiagram", err)
		}
		capture.LowerEye = &lower
		capture.UpperEye = &upper
	}

	return capture, nil
}

func (d *Device) readEyeMargins(ctx context.Context, lane int, which string) (EyeMargins, error) {
	reg := regmap.EyeMarginRegister(lane, which)
	raw, err := d.access.ReadU32(ctx, reg.Address)
	if err != nil {
		return EyeMargins{}, err
	}
	return EyeMargins{
		LeftMarginMui:  int(reg.Extract32(raw, "LEFT_MUI")),
		RightMarginMui: int(reg.Extract32(raw, "RIGHT_MUI")),
		UpperMarginMv:  int(reg.Extract32(raw, "UPPER_MV")),
		LowerMarginMv:  int(reg.Extract32(raw, "LOWER_MV")),
	}, nil
}
