package regmap

// Registers is the static catalog of named register descriptors, keyed by
// name. It is constructed once at package init and never mutated
// afterward; every device façade operation looks registers up here rather
// than hard-coding addresses.
var Registers = map[string]RegisterDescriptor{}

// ByAddress indexes the same descriptors by address for discovery/decoding
// paths that only have a raw address.
var ByAddress = map[uint32]RegisterDescriptor{}

func register(r RegisterDescriptor) {
	Registers[r.Name] = r
	ByAddress[r.Address] = r
}

func init() {
	register(RegisterDescriptor{
		Name: "GLOBAL_PARAM0", Address: 0x0000, WidthBytes: 4,
		Description: "Global device configuration: bifurcation, clocking, link behavior, data rate.",
		Fields: []FieldDescriptor{
			{Name: "PROFILE", LSB: 0, MSB: 2, Description: "Active configuration profile index."},
			{Name: "BIFURCATION", LSB: 7, MSB: 12, Description: "Lane bifurcation mode (BifurcationMode code)."},
			{Name: "EEPROM_DATA_VAL", LSB: 13, MSB: 14, Description: "EEPROM data validity indicator."},
			{Name: "AUTOINC", LSB: 15, MSB: 15, Description: "Auto-increment addressing enable."},
			{Name: "CLK_MODE", LSB: 16, MSB: 18, Description: "Reference clocking mode (ClockingMode code)."},
			// The reference register map lists ENH_LINK_BEHAV as [20:18],
			// which overlaps CLK_MODE at bit 18. Narrowed to [20:19] to
			// satisfy the non-overlapping-fields invariant; see DESIGN.md.
			{Name: "ENH_LINK_BEHAV", LSB: 19, MSB: 20, Description: "Enhanced link behavior mode."},
			{Name: "EEPROM_TIMEOUT", LSB: 21, MSB: 23, Description: "EEPROM load timeout selector."},
			{Name: "MAX_DATA_RATE", LSB: 24, MSB: 26, Description: "Maximum negotiated data rate (DataRate code)."},
			{Name: "SRIS_PAYLOAD", LSB: 28, MSB: 30, Description: "SRIS link payload size selector."},
			{Name: "PORT_ORIEN", LSB: 31, MSB: 31, Description: "Port orientation method (PortOrientation code)."},
		},
	})

	register(RegisterDescriptor{
		Name: "GLOBAL_PARAM1", Address: 0x0004, WidthBytes: 4,
		Description: "Device identification: vendor, device, revision IDs.",
		Fields: []FieldDescriptor{
			{Name: "REVISION_ID", LSB: 0, MSB: 7, Description: "Silicon revision."},
			{Name: "DEVICE_ID", LSB: 8, MSB: 15, Description: "Product device ID."},
			{Name: "VENDOR_ID", LSB: 16, MSB: 31, Description: "PCI vendor ID (Broadcom = 0x14E4)."},
		},
	})

	register(RegisterDescriptor{
		Name: "GLOBAL_INTR", Address: 0x0008, WidthBytes: 4,
		Description: "Global interrupt status (bits 3:0) and enables (bits 19:16).",
		Fields: []FieldDescriptor{
			{Name: "INTR_STS", LSB: 0, MSB: 0, Description: "Aggregate interrupt status."},
			{Name: "EQ_PHASE_ERR_STS", LSB: 1, MSB: 1, Description: "Equalization phase error status."},
			{Name: "PHY_PHASE_ERR_STS", LSB: 2, MSB: 2, Description: "PHY phase error status."},
			{Name: "RTMR_INT_ERR_STS", LSB: 3, MSB: 3, Description: "Internal retimer error status."},
			{Name: "INTR_EN", LSB: 16, MSB: 16, Description: "Aggregate interrupt enable."},
			{Name: "EQ_PHASE_ERR_EN", LSB: 17, MSB: 17, Description: "Equalization phase error enable."},
			{Name: "PHY_PHASE_ERR_EN", LSB: 18, MSB: 18, Description: "PHY phase error enable."},
			{Name: "RTMR_INT_ERR_EN", LSB: 19, MSB: 19, Description: "Internal retimer error enable."},
		},
	})

	register(RegisterDescriptor{
		Name: "RESET_CTRL", Address: 0x0010, WidthBytes: 4,
		Description: "One-hot reset strobes.",
		Fields: []FieldDescriptor{
			{Name: "HARD_RST", LSB: 0, MSB: 0, Description: "Hard reset strobe."},
			{Name: "SOFT_RST", LSB: 1, MSB: 1, Description: "Soft reset strobe."},
			{Name: "MAC_RST", LSB: 2, MSB: 2, Description: "MAC reset strobe."},
			{Name: "PERST", LSB: 3, MSB: 3, Description: "PCIe PERST strobe."},
			{Name: "GLOBAL_SWRST", LSB: 4, MSB: 4, Description: "Global software reset strobe."},
		},
	})

	register(RegisterDescriptor{
		Name: "TEMPERATURE", Address: 0x0100, WidthBytes: 4,
		Description: "Die temperature in degrees Celsius.",
		Fields: []FieldDescriptor{
			{Name: "VALUE", LSB: 0, MSB: 15, Description: "Signed temperature value, degrees C."},
			{Name: "VALID", LSB: 31, MSB: 31, Description: "Set when VALUE has settled since power-on."},
		},
	})

	for i, name := range []string{"VOLTAGE_DVDD1", "VOLTAGE_DVDD2", "VOLTAGE_DVDD3", "VOLTAGE_DVDD4", "VOLTAGE_DVDD5", "VOLTAGE_DVDD6", "VOLTAGE_DVDDIO"} {
		register(RegisterDescriptor{
			Name: name, Address: 0x0104 + uint32(i)*4, WidthBytes: 4,
			Description: "Supply rail voltage in millivolts.",
			Fields: []FieldDescriptor{
				{Name: "VALUE", LSB: 0, MSB: 15, Description: "Voltage in mV."},
			},
		})
	}

	register(RegisterDescriptor{
		Name: "XAGENT_INFO_0", Address: 0x4000, WidthBytes: 4,
		Description: "Management agent firmware version and product ID.",
		Fields: []FieldDescriptor{
			{Name: "FW_MINOR", LSB: 0, MSB: 7, Description: "Firmware minor version."},
			{Name: "FW_MAJOR", LSB: 8, MSB: 15, Description: "Firmware major version."},
			{Name: "PRODUCT_ID", LSB: 16, MSB: 31, Description: "Product identifier."},
		},
	})

	ltssmFields := []FieldDescriptor{
		{Name: "CURRENT_STATE", LSB: 0, MSB: 7, Description: "LTSSM state code."},
		{Name: "LINK_SPEED", LSB: 8, MSB: 11, Description: "Negotiated link speed (DataRate code)."},
		{Name: "LINK_WIDTH", LSB: 12, MSB: 16, Description: "Negotiated link width in lanes."},
		{Name: "FORWARDING_MODE", LSB: 17, MSB: 17, Description: "Set when the port is actively forwarding."},
	}
	register(RegisterDescriptor{
		Name: "PPA_LTSSM_STATE", Address: 0x8000, WidthBytes: 4,
		Description: "Pseudo Port A link training state.",
		Fields:      ltssmFields,
	})
	register(RegisterDescriptor{
		Name: "PPB_LTSSM_STATE", Address: 0xC000, WidthBytes: 4,
		Description: "Pseudo Port B link training state.",
		Fields:      ltssmFields,
	})
}

// LaneCount is the number of SerDes lanes on the retimer.
const LaneCount = 16

// TxCoeffGeneration selects which per-generation TX coefficient block to
// address (§4.4, §6 "TX coefficients").
type TxCoeffGeneration int

const (
	TxCoeffGen3 TxCoeffGeneration = iota
	TxCoeffGen4
	TxCoeffGen5
	TxCoeffGen6
)

var txCoeffBase = map[TxCoeffGeneration]uint32{
	TxCoeffGen3: 0x0200,
	TxCoeffGen4: 0x0280,
	TxCoeffGen5: 0x0300,
	TxCoeffGen6: 0x0380,
}

const txCoeffStride = 0x10
const errorStatBase = 0x0500
const errorStatStride = 0x20

// TxCoeffAddress returns the register address of lane's TX-coefficient
// block for the given generation. lane must be in [0, LaneCount).
func TxCoeffAddress(gen TxCoeffGeneration, lane int) uint32 {
	return txCoeffBase[gen] + uint32(lane)*txCoeffStride
}

// ErrorStatAddress returns the register address of lane's error-statistics
// block. lane must be in [0, LaneCount).
func ErrorStatAddress(lane int) uint32 {
	return errorStatBase + uint32(lane)*errorStatStride
}
