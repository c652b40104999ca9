// Package savefile writes the object stream of a dump.
//
// A dump is a header, the schema of every type reachable from the objects'
// descriptors, and one record per object:
//
//	"SAVE" version:int32 littleEndian:int32
//	count:int32 descriptor...
//	typeId:int32 size:int32 address:uintptr bytes[size] ...
//
// Objects come from Go values (ValueOf), from a linear memory (FromMemory)
// or from bytes captured elsewhere (Raw). WriteFile validates every object
// before anything is written and stages the encoding, so a failed dump never
// leaves partial output behind.
package savefile
