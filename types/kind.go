package types

// Kind is the wire tag of a descriptor.
type Kind int32

const unsignedBit = 32

const (
	KindInt8    Kind = 0
	KindInt16   Kind = 1
	KindInt32   Kind = 2
	KindInt64   Kind = 3
	KindFloat32 Kind = 4
	KindFloat64 Kind = 5
	KindStruct  Kind = 6
	KindArray   Kind = 7
	KindPointer Kind = 8

	KindUint8  = KindInt8 | unsignedBit
	KindUint16 = KindInt16 | unsignedBit
	KindUint32 = KindInt32 | unsignedBit
	KindUint64 = KindInt64 | unsignedBit
)

var kindNames = map[Kind]string{
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindStruct:  "struct",
	KindArray:   "array",
	KindPointer: "pointer",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
	return false
}

// Unsigned reports whether the unsigned bit is set.
func (k Kind) Unsigned() bool {
	return k&unsignedBit != 0
}

// Base strips the unsigned bit, so KindUint32.Base() == KindInt32.
func (k Kind) Base() Kind {
	return k &^ unsignedBit
}

// numericSize returns the width in bytes of a numeric kind, 0 otherwise.
func (k Kind) numericSize() int {
	if !k.IsNumeric() {
		return 0
	}
	switch k.Base() {
	case KindInt8:
		return 1
	case KindInt16:
		return 2
	case KindInt32, KindFloat32:
		return 4
	default:
		return 8
	}
}
