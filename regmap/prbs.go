package regmap

// PRBS register layout is not part of the documented external register
// map (§6 only names PRBSConfig/PRBSResult at the API level, not their
// wire addresses). The per-lane block layout below is a design decision
// internally consistent with the TxCoeff/ErrorStat addressing pattern
// elsewhere in this catalog — see DESIGN.md.

// PRBSGlobalCtrlAddr holds the global PRBS start bit (bit 0).
const PRBSGlobalCtrlAddr = 0x0600

const prbsCtrlBase = 0x0700
const prbsCtrlStride = 0x10
const prbsResultBase = 0x0900
const prbsResultStride = 0x10

func init() {
	register(RegisterDescriptor{
		Name: "PRBS_GLOBAL_CTRL", Address: PRBSGlobalCtrlAddr, WidthBytes: 4,
		Description: "Global PRBS test start/stop strobe.",
		Fields: []FieldDescriptor{
			{Name: "START", LSB: 0, MSB: 0, Description: "Set to start all enabled lanes; clear to stop."},
		},
	})
}

// prbsCtrlFields describes one lane's generator enable and pattern select.
var prbsCtrlFields = []FieldDescriptor{
	{Name: "PATTERN", LSB: 0, MSB: 3, Description: "PRBSPattern code."},
	{Name: "ENABLE", LSB: 4, MSB: 4, Description: "Lane generator/checker enable."},
}

// prbsStatusFields describes one lane's live test status.
var prbsStatusFields = []FieldDescriptor{
	{Name: "SYNC_ACQUIRED", LSB: 0, MSB: 0, Description: "Checker has acquired pattern sync."},
	{Name: "TEST_COMPLETE", LSB: 1, MSB: 1, Description: "Requested sample count has been reached."},
}

// PRBSLaneCtrlRegister returns the lane-specific generator/checker control
// register descriptor, addressed at lane's control block.
func PRBSLaneCtrlRegister(lane int) RegisterDescriptor {
	return RegisterDescriptor{
		Name: "PRBS_LANE_CTRL", Address: prbsCtrlBase + uint32(lane)*prbsCtrlStride, WidthBytes: 4,
		Fields: prbsCtrlFields,
	}
}

// PRBSSampleCountAddress returns lane's requested-sample-count register.
func PRBSSampleCountAddress(lane int) uint32 {
	return prbsCtrlBase + uint32(lane)*prbsCtrlStride + 0x04
}

// PRBSLaneStatusRegister returns lane's live status register descriptor.
func PRBSLaneStatusRegister(lane int) RegisterDescriptor {
	return RegisterDescriptor{
		Name: "PRBS_LANE_STATUS", Address: prbsCtrlBase + uint32(lane)*prbsCtrlStride + 0x08, WidthBytes: 4,
		Fields: prbsStatusFields,
	}
}

// PRBSBitCountLoAddress/HiAddress address the 64-bit bit-count pair for lane.
func PRBSBitCountLoAddress(lane int) uint32 { return prbsResultBase + uint32(lane)*prbsResultStride }
func PRBSBitCountHiAddress(lane int) uint32 {
	return prbsResultBase + uint32(lane)*prbsResultStride + 0x04
}

// PRBSErrorCountLoAddress/HiAddress address the 64-bit error-count pair for lane.
func PRBSErrorCountLoAddress(lane int) uint32 {
	return prbsResultBase + uint32(lane)*prbsResultStride + 0x08
}
func PRBSErrorCountHiAddress(lane int) uint32 {
	return prbsResultBase + uint32(lane)*prbsResultStride + 0x0C
}
