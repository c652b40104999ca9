// Package witschema converts WIT type definitions into dump descriptors.
//
// Records become structs whose member offsets follow the Canonical ABI
// layout, so the bytes of a record in a component's linear memory can be
// snapshotted and described directly:
//
//	c := witschema.NewConverter()
//	point, err := c.Convert(pointTypeDef)
//	obj, err := savefile.FromMemory(mem, point, addr)
//
// Only fixed-size, pointer-free types convert. Strings, lists, variants,
// options, results and resource handles are rejected as unsupported.
package witschema
