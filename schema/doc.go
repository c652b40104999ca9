// Package schema builds the type table embedded in a dump.
//
// Build walks the descriptors reachable from a set of roots, deduplicates
// them by canonical name and assigns dense ids in byte-wise name order:
//
//	table, err := schema.Build(testType)
//	// table.Names() == ["Test", "float32", "int32", "int8"]
//	id, _ := table.ID("Test") // 0
//
// The id assignment is part of the wire format: every object record refers
// to its type by the id, so the order must be reproduced exactly.
//
// Two reachable descriptors that share a name but not a layout fail with a
// schema conflict instead of silently keeping one of them. Same-width signed
// and unsigned numerics share a name and are not a conflict; the first one
// reached is kept.
package schema
