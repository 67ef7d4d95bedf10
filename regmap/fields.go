// Package regmap is the static, read-only catalog of retimer register
// descriptors and the bitfield extract/insert engine (§4.4). All data here
// is immutable global state shared by every device façade.
package regmap

// FieldDescriptor names a bit range within a register.
type FieldDescriptor struct {
	Name        string
	LSB         uint8
	MSB         uint8
	Description string
}

// Width returns the number of bits the field occupies.
func (f FieldDescriptor) Width() uint8 { return f.MSB - f.LSB + 1 }

// Mask returns the bitmask covering this field's position within the
// register.
func (f FieldDescriptor) Mask() uint64 {
	return ((uint64(1) << f.Width()) - 1) << f.LSB
}

// Extract pulls this field's value out of a raw register value.
func (f FieldDescriptor) Extract(raw uint64) uint64 {
	return (raw >> f.LSB) & ((uint64(1) << f.Width()) - 1)
}

// Insert places v into this field's position within raw, leaving every
// other bit untouched. v is masked to the field width first.
func (f FieldDescriptor) Insert(raw uint64, v uint64) uint64 {
	cleared := raw &^ f.Mask()
	fieldWidth := (uint64(1) << f.Width()) - 1
	return cleared | ((v & fieldWidth) << f.LSB)
}

// RegisterDescriptor describes one addressable register and its fields.
type RegisterDescriptor struct {
	Name        string
	Address     uint32
	WidthBytes  uint8 // 2 or 4
	Description string
	Fields      []FieldDescriptor
}

// Field looks up a field by name within this register, returning ok=false
// if it is not defined.
func (r RegisterDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Extract32 is a convenience wrapper for extracting a named field from a
// 32-bit register value; it panics if the field does not exist, since a
// missing field name here is a programmer error in the static catalog,
// never a runtime condition.
func (r RegisterDescriptor) Extract32(raw uint32, fieldName string) uint32 {
	f, ok := r.Field(fieldName)
	if !ok {
		panic("regmap: unknown field " + fieldName + " in register " + r.Name)
	}
	return uint32(f.Extract(uint64(raw)))
}

// Insert32 is the 32-bit convenience wrapper for Insert.
func (r RegisterDescriptor) Insert32(raw uint32, fieldName string, v uint32) uint32 {
	f, ok := r.Field(fieldName)
	if !ok {
		panic("regmap: unknown field " + fieldName + " in register " + r.Name)
	}
	return uint32(f.Insert(uint64(raw), uint64(v)))
}
