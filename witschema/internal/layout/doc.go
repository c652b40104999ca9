// Package layout provides Canonical ABI layout calculations for WIT types.
//
// # Layout Rules
//
// The Canonical ABI defines specific layout rules:
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records and tuples: fields laid out sequentially with padding for alignment
//   - Variants: discriminant followed by largest payload case
//   - Lists/Strings: (pointer, length) pair in memory, content elsewhere
//
// # Usage
//
//	c := layout.NewCalculator()
//	info := c.Calculate(witType)
//	// info.Size, info.Align, info.Offsets available
//
// This package is internal to witschema.
package layout
