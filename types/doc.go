// Package types defines the type descriptors embedded in a dump.
//
// A Type is a closed variant over four kinds:
//
//	Numeric  int8..int64, uint8..uint64, float32, float64
//	Array    fixed-length run of one element type, named "elem[n]"
//	Pointer  platform-width address of a pointee, named "*pointee"
//	Struct   declared name, size and members at caller-supplied offsets
//
// The canonical name is the identity of a type: two descriptors with equal
// names are the same type. Unsigned numerics share the name of their signed
// counterpart, so uint32 is "int32" on the wire and only its kind tag keeps
// the unsigned bit.
//
// Struct descriptors are built with NewStruct, or derived from Go types with
// For and Of, which take member offsets from the compiler's own layout.
// Descriptors are immutable once built and safe for concurrent reads; the
// Registry interns them by name.
package types
