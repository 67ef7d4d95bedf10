package regmap

import "fmt"

// DataRate is the PCIe generation negotiated on a link (§6).
type DataRate uint8

const (
	Gen1_2P5G DataRate = 0
	Gen2_5G   DataRate = 1
	Gen3_8G   DataRate = 2
	Gen4_16G  DataRate = 3
	Gen5_32G  DataRate = 4
	Gen6_64G  DataRate = 5
)

func (d DataRate) String() string {
	switch d {
	case Gen1_2P5G:
		return "GEN1_2P5G"
	case Gen2_5G:
		return "GEN2_5G"
	case Gen3_8G:
		return "GEN3_8G"
	case Gen4_16G:
		return "GEN4_16G"
	case Gen5_32G:
		return "GEN5_32G"
	case Gen6_64G:
		return "GEN6_64G"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(d))
	}
}

// ClockingMode is the reference-clock distribution scheme (§6).
type ClockingMode uint8

const (
	CommonWoSSC ClockingMode = 0
	CommonSSC   ClockingMode = 1
	SRNSWoSSC   ClockingMode = 2
	SRISSSC     ClockingMode = 3
	SRISWoSSC   ClockingMode = 4
	SRISWoSSCLL ClockingMode = 5
)

func (c ClockingMode) String() string {
	names := [...]string{"COMMON_WO_SSC", "COMMON_SSC", "SRNS_WO_SSC", "SRIS_SSC", "SRIS_WO_SSC", "SRIS_WO_SSC_LL"}
	if int(c) < len(names) {
		return names[c]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(c))
}

// PortOrientation selects how a pseudo port's physical lanes are mapped.
type PortOrientation uint8

const (
	PortOrientationStatic  PortOrientation = 0
	PortOrientationDynamic PortOrientation = 1
)

// ResetType names the one-hot bit to assert in RESET_CTRL (§4.5).
type ResetType uint8

const (
	ResetHard ResetType = 0
	ResetSoft ResetType = 1
	ResetMAC  ResetType = 2
	ResetPERST ResetType = 3
	ResetGlobalSWRST ResetType = 4
)

func (r ResetType) String() string {
	names := [...]string{"HARD", "SOFT", "MAC", "PERST", "GLOBAL_SWRST"}
	if int(r) < len(names) {
		return names[r]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(r))
}

// BitMask returns the one-hot RESET_CTRL bit this reset type asserts.
func (r ResetType) BitMask() uint32 {
	return 1 << uint32(r)
}

// BifurcationMode names how the 16 lanes are partitioned into independent
// links. The reference table defines 33 variants (codes 0..32); only the
// handful actually exercised by the façade's decode/encode paths are
// named here, the remainder surface via Unknown the same way LtssmState
// does, since the full table adds no behavior beyond its numeric code.
type BifurcationMode uint8

const (
	BifurcationX16 BifurcationMode = 0
	BifurcationX8X8 BifurcationMode = 1
	BifurcationX8X4X4 BifurcationMode = 2
	BifurcationX4X4X4X4 BifurcationMode = 3
	BifurcationX2X2 BifurcationMode = 32
)

func (b BifurcationMode) String() string {
	switch b {
	case BifurcationX16:
		return "X16"
	case BifurcationX8X8:
		return "X8_X8"
	case BifurcationX8X4X4:
		return "X8_X4_X4"
	case BifurcationX4X4X4X4:
		return "X4_X4_X4_X4"
	case BifurcationX2X2:
		return "X2_X2"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(b))
	}
}

// LtssmState is the PCIe Link Training and Status State Machine state
// reported by PPA_LTSSM_STATE/PPB_LTSSM_STATE. The reference table is
// incomplete; unlisted codes decode to Unknown rather than failing, so a
// status UI can still render (§9 design notes).
type LtssmState uint8

const (
	LtssmDetect            LtssmState = 0x0
	LtssmRateChange        LtssmState = 0x3
	LtssmFwdForwarding     LtssmState = 0x4
	LtssmFwdHotReset       LtssmState = 0x5
	LtssmFwdDisable        LtssmState = 0x6
	LtssmFwdLoopback       LtssmState = 0x7
	LtssmFwdCplRcv         LtssmState = 0x8
	LtssmFwdEnterCpl       LtssmState = 0x9
	LtssmFwdPML11          LtssmState = 0xA
	LtssmExeClbEntry       LtssmState = 0x10
	LtssmExeClbPattern     LtssmState = 0x11
	LtssmExeClbExit        LtssmState = 0x12
	LtssmExeEqPh2Active    LtssmState = 0x14
	LtssmExeEqPh2Passive   LtssmState = 0x15
	LtssmExeEqPh3Active    LtssmState = 0x16
	LtssmExeEqPh3Passive   LtssmState = 0x17
	LtssmExeEqForceTimeout LtssmState = 0x18
	LtssmExeSlaveLpbkEntry LtssmState = 0x1C
	LtssmExeSlaveLpbkActive LtssmState = 0x1D
	LtssmExeSlaveLpbkExit  LtssmState = 0x1E
)

var ltssmNames = map[LtssmState]string{
	LtssmDetect:             "DETECT",
	LtssmRateChange:         "RATE_CHANGE",
	LtssmFwdForwarding:      "FWD_FORWARDING",
	LtssmFwdHotReset:        "FWD_HOT_RESET",
	LtssmFwdDisable:         "FWD_DISABLE",
	LtssmFwdLoopback:        "FWD_LOOPBACK",
	LtssmFwdCplRcv:          "FWD_CPL_RCV",
	LtssmFwdEnterCpl:        "FWD_ENTER_CPL",
	LtssmFwdPML11:           "FWD_PM_L1_1",
	LtssmExeClbEntry:        "EXE_CLB_ENTRY",
	LtssmExeClbPattern:      "EXE_CLB_PATTERN",
	LtssmExeClbExit:         "EXE_CLB_EXIT",
	LtssmExeEqPh2Active:     "EXE_EQ_PH2_ACTIVE",
	LtssmExeEqPh2Passive:    "EXE_EQ_PH2_PASSIVE",
	LtssmExeEqPh3Active:     "EXE_EQ_PH3_ACTIVE",
	LtssmExeEqPh3Passive:    "EXE_EQ_PH3_PASSIVE",
	LtssmExeEqForceTimeout:  "EXE_EQ_FORCE_TIMEOUT",
	LtssmExeSlaveLpbkEntry:  "EXE_SLAVE_LPBK_ENTRY",
	LtssmExeSlaveLpbkActive: "EXE_SLAVE_LPBK_ACTIVE",
	LtssmExeSlaveLpbkExit:   "EXE_SLAVE_LPBK_EXIT",
}

func (l LtssmState) String() string {
	if name, ok := ltssmNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02X)", uint8(l))
}

// PRBSPattern names the pseudo-random bit sequence used for BER testing.
type PRBSPattern uint8

const (
	PRBS7  PRBSPattern = 0
	PRBS9  PRBSPattern = 1
	PRBS10 PRBSPattern = 2
	PRBS11 PRBSPattern = 3
	PRBS13 PRBSPattern = 4
	PRBS15 PRBSPattern = 5
	PRBS20 PRBSPattern = 6
	PRBS23 PRBSPattern = 7
	PRBS31 PRBSPattern = 8
	PRBS49 PRBSPattern = 9
	PRBS58 PRBSPattern = 10
)

func (p PRBSPattern) String() string {
	names := [...]string{"PRBS7", "PRBS9", "PRBS10", "PRBS11", "PRBS13", "PRBS15", "PRBS20", "PRBS23", "PRBS31", "PRBS49", "PRBS58"}
	if int(p) < len(names) {
		return names[p]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(p))
}
