package regmap

import "testing"

func TestFieldInsertExtractRoundTrip(t *testing.T) {
	f := FieldDescriptor{Name: "TEST", LSB: 4, MSB: 10}
	maxVal := uint64(1)<<f.Width() - 1

	for v := uint64(0); v <= maxVal; v++ {
		raw := f.Insert(0, v)
		got := f.Extract(raw)
		if got != v {
			t.Fatalf("round trip failed for v=%d: extracted %d", v, got)
		}
	}
}

func TestInsertPreservesOtherBits(t *testing.T) {
	f := FieldDescriptor{Name: "MID", LSB: 8, MSB: 11}
	raw := uint64(0xFFFFFFFF)

	updated := f.Insert(raw, 0)
	if updated&^f.Mask() != raw&^f.Mask() {
		t.Errorf("Insert clobbered bits outside the field")
	}
	if f.Extract(updated) != 0 {
		t.Errorf("field bits were not cleared")
	}
}

func TestFieldWidthAndMask(t *testing.T) {
	f := FieldDescriptor{LSB: 12, MSB: 16}
	if f.Width() != 5 {
		t.Errorf("Width() = %d, want 5", f.Width())
	}
	if f.Mask() != 0x1F000 {
		t.Errorf("Mask() = 0x%X, want 0x1F000", f.Mask())
	}
}
