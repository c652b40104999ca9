package types

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/errors"
)

// PointerSize is the size of every pointer descriptor.
const PointerSize = binary.PointerSize

// Type describes the shape of a value. It is one of Numeric, Array, Pointer or
// Struct, selected by Kind. A Type is immutable once built and is shared by
// reference across every value of that type.
type Type struct {
	elem    *Type
	index   map[string]int
	name    string
	members []Member
	size    int
	length  int
	kind    Kind
	built   bool
}

// Member is a named field of a struct at a caller-supplied byte offset.
type Member struct {
	Type   *Type
	Name   string
	Offset int
}

// Numeric descriptors. Unsigned kinds report the canonical name of their signed
// counterpart (Uint32.Name() == "int32"), so the two are indistinguishable by
// name on the wire; only the kind tag keeps the unsigned bit.
var (
	Int8    = newNumeric(KindInt8, "int8")
	Int16   = newNumeric(KindInt16, "int16")
	Int32   = newNumeric(KindInt32, "int32")
	Int64   = newNumeric(KindInt64, "int64")
	Uint8   = newNumeric(KindUint8, "int8")
	Uint16  = newNumeric(KindUint16, "int16")
	Uint32  = newNumeric(KindUint32, "int32")
	Uint64  = newNumeric(KindUint64, "int64")
	Float32 = newNumeric(KindFloat32, "float32")
	Float64 = newNumeric(KindFloat64, "float64")
)

var numerics = map[Kind]*Type{
	KindInt8:    Int8,
	KindInt16:   Int16,
	KindInt32:   Int32,
	KindInt64:   Int64,
	KindUint8:   Uint8,
	KindUint16:  Uint16,
	KindUint32:  Uint32,
	KindUint64:  Uint64,
	KindFloat32: Float32,
	KindFloat64: Float64,
}

func newNumeric(kind Kind, name string) *Type {
	return &Type{kind: kind, name: name, size: kind.numericSize(), built: true}
}

// NewNumeric returns the shared descriptor for a numeric kind.
func NewNumeric(kind Kind) (*Type, error) {
	if t, ok := numerics[kind]; ok {
		return t, nil
	}
	return nil, errors.New(errors.PhaseBuild, errors.KindUnsupported).
		Value(kind).
		Detail("kind %d is not numeric", int32(kind)).
		Build()
}

// NewArray describes length consecutive elements. The canonical name is
// elem.Name() + "[" + length + "]".
func NewArray(length int, elem *Type) (*Type, error) {
	if elem == nil {
		return nil, errors.IncompleteType(errors.PhaseBuild, nil, "array element")
	}
	if length < 0 {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(elem.name).
			Value(length).
			Detail("negative array length %d", length).
			Build()
	}
	if elem.size > 0 && length > math.MaxInt32/elem.size {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(elem.name).
			Value(length).
			Detail("array of %d elements exceeds int32 size", length).
			Build()
	}
	return &Type{
		kind:   KindArray,
		name:   elem.name + "[" + strconv.Itoa(length) + "]",
		size:   elem.size * length,
		length: length,
		elem:   elem,
		built:  true,
	}, nil
}

// NewPointer describes a pointer to elem. The canonical name is "*" + elem.Name().
func NewPointer(elem *Type) (*Type, error) {
	if elem == nil {
		return nil, errors.IncompleteType(errors.PhaseBuild, nil, "pointee")
	}
	return &Type{
		kind:  KindPointer,
		name:  "*" + elem.name,
		size:  PointerSize,
		elem:  elem,
		built: true,
	}, nil
}

func (t *Type) Kind() Kind {
	return t.kind
}

// Name returns the canonical name, the identity key of the type.
func (t *Type) Name() string {
	return t.name
}

// Size returns the size of a value in bytes.
func (t *Type) Size() int {
	return t.size
}

// Len returns the element count of an array, 0 for other kinds.
func (t *Type) Len() int {
	return t.length
}

// Elem returns the element of an array or the pointee of a pointer.
func (t *Type) Elem() *Type {
	return t.elem
}

// Members returns a copy of the struct members in declaration order.
func (t *Type) Members() []Member {
	return slices.Clone(t.members)
}

func (t *Type) NumMembers() int {
	return len(t.members)
}

// Member returns the named struct member.
func (t *Type) Member(name string) (Member, bool) {
	i, ok := t.index[name]
	if !ok {
		return Member{}, false
	}
	return t.members[i], true
}

// Built reports whether a struct descriptor has been finalized.
// Numeric, array and pointer descriptors are always built.
func (t *Type) Built() bool {
	return t.built
}

func (t *Type) String() string {
	return t.name
}

// Describe returns a short structural summary used in diagnostics.
func (t *Type) Describe() string {
	switch t.kind {
	case KindArray:
		return fmt.Sprintf("array[%d] of %s", t.length, t.elem.name)
	case KindPointer:
		return "pointer to " + t.elem.name
	case KindStruct:
		return fmt.Sprintf("struct(%d bytes, %d members)", t.size, len(t.members))
	default:
		return t.kind.String()
	}
}

// Serialize writes the kind tag followed by the kind-specific fields.
func (t *Type) Serialize(w *binary.Writer) {
	w.Int32(int32(t.kind))
	switch t.kind {
	case KindArray:
		w.Int(t.length)
		w.String(t.elem.name)
	case KindPointer:
		w.String(t.elem.name)
	case KindStruct:
		w.Int(t.size)
		w.String(t.name)
		w.Int(len(t.members))
		for _, m := range t.members {
			w.String(m.Name)
			w.String(m.Type.name)
			w.Int(m.Offset)
		}
	}
}

// SameLayout reports whether a and b describe the same layout. Numeric kinds
// of equal width and class match regardless of signedness, mirroring their
// shared canonical name. Subtypes are compared by name.
func SameLayout(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind.Base() != b.kind.Base() || a.size != b.size || a.name != b.name {
		return false
	}
	switch a.kind {
	case KindArray:
		return a.length == b.length && a.elem.name == b.elem.name
	case KindPointer:
		return a.elem.name == b.elem.name
	case KindStruct:
		return slices.EqualFunc(a.members, b.members, func(x, y Member) bool {
			return x.Name == y.Name && x.Offset == y.Offset && x.Type.name == y.Type.name
		})
	}
	return true
}
