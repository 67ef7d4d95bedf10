package regmap

// Eye-diagram capture register layout, like the PRBS layout in prbs.go, is
// not part of the documented external register map — only the API-level
// shape (EyeCapture/EyeMargins) is specified. The per-lane block below
// follows the same base+stride pattern as TxCoeff/ErrorStat; see
// DESIGN.md.

const eyeCtrlBase = 0x0A00
const eyeCtrlStride = 0x20

var eyeCtrlFields = []FieldDescriptor{
	{Name: "TRIGGER", LSB: 0, MSB: 0, Description: "Single-shot capture trigger."},
	{Name: "RATE", LSB: 1, MSB: 4, Description: "Capture data rate (DataRate code)."},
}

var eyeStatusFields = []FieldDescriptor{
	{Name: "CAPTURE_VALID", LSB: 0, MSB: 0, Description: "Set when the triggered capture has completed."},
}

// eyeMarginFields describes one eye opening's four margins, each an
// unsigned 8-bit field, packed together into one 32-bit register.
var eyeMarginFields = []FieldDescriptor{
	{Name: "LEFT_MUI", LSB: 0, MSB: 7, Description: "Left horizontal margin, milli-UI."},
	{Name: "RIGHT_MUI", LSB: 8, MSB: 15, Description: "Right horizontal margin, milli-UI."},
	{Name: "UPPER_MV", LSB: 16, MSB: 23, Description: "Upper vertical margin, mV."},
	{Name: "LOWER_MV", LSB: 24, MSB: 31, Description: "Lower vertical margin, mV."},
}

// EyeCtrlRegister returns lane's capture trigger/rate register.
func EyeCtrlRegister(lane int) RegisterDescriptor {
	return RegisterDescriptor{
		Name: "EYE_CTRL", Address: eyeCtrlBase + uint32(lane)*eyeCtrlStride, WidthBytes: 4,
		Fields: eyeCtrlFields,
	}
}

// EyeStatusRegister returns lane's capture_valid status register.
func EyeStatusRegister(lane int) RegisterDescriptor {
	return RegisterDescriptor{
		Name: "EYE_STATUS", Address: eyeCtrlBase + uint32(lane)*eyeCtrlStride + 0x04, WidthBytes: 4,
		Fields: eyeStatusFields,
	}
}

// EyeMarginRegister returns lane's register for the named eye
// ("MIDDLE", "LOWER", "UPPER"); LOWER/UPPER only apply at Gen6.
func EyeMarginRegister(lane int, which string) RegisterDescriptor {
	offsets := map[string]uint32{"MIDDLE": 0x08, "LOWER": 0x0C, "UPPER": 0x10}
	return RegisterDescriptor{
		Name: "EYE_MARGIN_" + which, Address: eyeCtrlBase + uint32(lane)*eyeCtrlStride + offsets[which], WidthBytes: 4,
		Fields: eyeMarginFields,
	}
}
