// Package savedump writes self-describing binary dumps of typed memory.
//
// A dump carries the objects' raw bytes together with a description of their
// shapes, so a reader can interpret the bytes without a separately
// distributed schema.
//
// # Architecture Overview
//
//	savedump/            Root package with the Memory interface
//	├── types/           Type descriptors, struct builder, registry, reflection
//	├── schema/          Reachability walk and id assignment
//	├── binary/          Growable byte writer
//	├── savefile/        Header, schema and object records
//	├── memory/          wazero linear memory adapter
//	├── witschema/       WIT records to descriptors
//	├── errors/          Structured error types
//	└── cmd/savedump/    Command line tool
//
// # Quick Start
//
//	type Test struct {
//	    A int32   `save:"a"`
//	    B float32 `save:"b"`
//	    C int8    `save:"c"`
//	}
//
//	typ, err := types.For[Test]()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	obj, err := savefile.ValueOf(typ, &Test{A: 1, B: 2, C: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	w := binary.NewWriter()
//	if _, err := savefile.WriteFile(w, []savefile.Object{obj}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Wire Format
//
// All integers are fixed width in the writer's byte order, host order by
// default. The header records the order so a reader can swap when needed.
//
//	header   "SAVE" version:int32 littleEndian:int32
//	schema   count:int32 then one descriptor per type in id order
//	objects  typeId:int32 size:int32 address:uintptr bytes[size], repeated
//
// The object section has no count and no terminator: a reader must know how
// many records to expect from elsewhere. WriteFile reports the count in its
// Summary for that purpose.
//
// # Known Limitations
//
// Unsigned numeric types share the canonical name of their signed
// counterpart (uint32 is "int32"). Only the kind tag in the schema keeps the
// unsigned bit, and when both reach one table only the first one is kept.
//
// # Thread Safety
//
// Descriptors are immutable once built and safe for concurrent reads. The
// registry is safe for concurrent use. A binary.Writer is owned by a single
// goroutine.
package savedump
