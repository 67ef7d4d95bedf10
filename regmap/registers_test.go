package regmap

import "testing"

func TestRequiredRegistersArePresent(t *testing.T) {
	names := []string{
		"GLOBAL_PARAM0", "GLOBAL_PARAM1", "GLOBAL_INTR", "RESET_CTRL",
		"TEMPERATURE", "VOLTAGE_DVDD1", "VOLTAGE_DVDD2", "VOLTAGE_DVDD3",
		"VOLTAGE_DVDD4", "VOLTAGE_DVDD5", "VOLTAGE_DVDD6", "VOLTAGE_DVDDIO",
		"XAGENT_INFO_0", "PPA_LTSSM_STATE", "PPB_LTSSM_STATE",
	}
	for _, name := range names {
		if _, ok := Registers[name]; !ok {
			t.Errorf("missing required register %s", name)
		}
	}
}

func TestRegisterAddressesMatchReference(t *testing.T) {
	cases := map[string]uint32{
		"GLOBAL_PARAM0":   0x0000,
		"GLOBAL_PARAM1":   0x0004,
		"GLOBAL_INTR":     0x0008,
		"RESET_CTRL":      0x0010,
		"TEMPERATURE":     0x0100,
		"VOLTAGE_DVDD1":   0x0104,
		"VOLTAGE_DVDD6":   0x0118,
		"VOLTAGE_DVDDIO":  0x011C,
		"XAGENT_INFO_0":   0x4000,
		"PPA_LTSSM_STATE": 0x8000,
		"PPB_LTSSM_STATE": 0xC000,
	}
	for name, addr := range cases {
		r, ok := Registers[name]
		if !ok {
			t.Fatalf("register %s not found", name)
		}
		if r.Address != addr {
			t.Errorf("%s address = 0x%04X, want 0x%04X", name, r.Address, addr)
		}
	}
}

func TestFieldsWithinRegisterAreNonOverlapping(t *testing.T) {
	for name, r := range Registers {
		var seen uint64
		for _, f := range r.Fields {
			if f.LSB > f.MSB {
				t.Errorf("%s.%s: lsb %d > msb %d", name, f.Name, f.LSB, f.MSB)
				continue
			}
			if int(f.MSB) >= int(r.WidthBytes)*8 {
				t.Errorf("%s.%s: msb %d exceeds register width %d bits", name, f.Name, f.MSB, r.WidthBytes*8)
			}
			if seen&f.Mask() != 0 {
				t.Errorf("%s.%s overlaps a previously defined field", name, f.Name)
			}
			seen |= f.Mask()
		}
	}
}

func TestFieldsAreSortedByLSB(t *testing.T) {
	for name, r := range Registers {
		for i := 1; i < len(r.Fields); i++ {
			if r.Fields[i].LSB < r.Fields[i-1].LSB {
				t.Errorf("%s: fields not sorted ascending by lsb at index %d", name, i)
			}
		}
	}
}

func TestTxCoeffAddressUsesBaseAndStride(t *testing.T) {
	if got := TxCoeffAddress(TxCoeffGen3, 0); got != 0x0200 {
		t.Errorf("Gen3 lane0 = 0x%04X, want 0x0200", got)
	}
	if got := TxCoeffAddress(TxCoeffGen6, 1); got != 0x0390 {
		t.Errorf("Gen6 lane1 = 0x%04X, want 0x0390", got)
	}
}

func TestErrorStatAddressUsesBaseAndStride(t *testing.T) {
	if got := ErrorStatAddress(0); got != 0x0500 {
		t.Errorf("lane0 = 0x%04X, want 0x0500", got)
	}
	if got := ErrorStatAddress(2); got != 0x0540 {
		t.Errorf("lane2 = 0x%04X, want 0x0540", got)
	}
}

func TestExtract32AndInsert32(t *testing.T) {
	r := Registers["GLOBAL_PARAM1"]
	raw := uint32(0x14E40201)

	if got := r.Extract32(raw, "VENDOR_ID"); got != 0x14E4 {
		t.Errorf("VENDOR_ID = 0x%04X, want 0x14E4", got)
	}
	if got := r.Extract32(raw, "DEVICE_ID"); got != 0x02 {
		t.Errorf("DEVICE_ID = 0x%02X, want 0x02", got)
	}
	if got := r.Extract32(raw, "REVISION_ID"); got != 0x01 {
		t.Errorf("REVISION_ID = 0x%02X, want 0x01", got)
	}

	updated := r.Insert32(raw, "REVISION_ID", 0x05)
	if got := r.Extract32(updated, "REVISION_ID"); got != 0x05 {
		t.Errorf("after Insert32, REVISION_ID = 0x%02X, want 0x05", got)
	}
	if got := r.Extract32(updated, "VENDOR_ID"); got != 0x14E4 {
		t.Errorf("Insert32 clobbered VENDOR_ID: got 0x%04X", got)
	}
}
