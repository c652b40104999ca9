package layout

import "go.bytecodealliance.org/wit"

// Info is the linear memory layout of a WIT type.
type Info struct {
	// Offsets holds record field or tuple element offsets in declaration order.
	Offsets []uint32
	Size    uint32
	Align   uint32
}

// AlignTo rounds offset up to a multiple of align, which must be a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// DiscriminantSize returns the byte width of a variant or enum discriminant.
func DiscriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case wit.String:
		return Info{Size: 8, Align: 4} // [ptr: u32, len: u32]
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{Size: 0, Align: 1}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			types[i] = f.Type
		}
		info = c.sequence(types)
	case *wit.Tuple:
		info = c.sequence(kind.Types)
	case *wit.Variant:
		info = c.calculateVariant(kind)
	case *wit.Enum:
		size := DiscriminantSize(len(kind.Cases))
		info = Info{Size: size, Align: size}
	case *wit.List:
		info = Info{Size: 8, Align: 4}
	case *wit.Option:
		info = c.payload(1, c.Calculate(kind.Type))
	case *wit.Result:
		info = c.calculateResult(kind)
	case *wit.Flags:
		info = calculateFlags(len(kind.Flags))
	case *wit.Own, *wit.Borrow:
		info = Info{Size: 4, Align: 4}
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

// sequence lays out record fields or tuple elements one after another.
func (c *Calculator) sequence(types []wit.Type) Info {
	if len(types) == 0 {
		return Info{Size: 0, Align: 1}
	}

	offsets := make([]uint32, len(types))
	maxAlign := uint32(1)
	offset := uint32(0)

	for i, typ := range types {
		elem := c.Calculate(typ)
		offset = AlignTo(offset, elem.Align)
		offsets[i] = offset

		if elem.Align > maxAlign {
			maxAlign = elem.Align
		}

		offset += elem.Size
	}

	return Info{
		Offsets: offsets,
		Size:    AlignTo(offset, maxAlign),
		Align:   maxAlign,
	}
}

func (c *Calculator) calculateVariant(v *wit.Variant) Info {
	if len(v.Cases) == 0 {
		return Info{Size: 0, Align: 1}
	}

	var largest Info
	largest.Align = 1
	for _, cs := range v.Cases {
		if cs.Type == nil {
			continue
		}
		l := c.Calculate(cs.Type)
		largest.Align = max(largest.Align, l.Align)
		largest.Size = max(largest.Size, l.Size)
	}
	return c.payload(DiscriminantSize(len(v.Cases)), largest)
}

func (c *Calculator) calculateResult(r *wit.Result) Info {
	largest := Info{Align: 1}
	for _, t := range []wit.Type{r.OK, r.Err} {
		if t == nil {
			continue
		}
		l := c.Calculate(t)
		largest.Align = max(largest.Align, l.Align)
		largest.Size = max(largest.Size, l.Size)
	}
	return c.payload(1, largest)
}

// payload places a case payload after a discriminant of discSize bytes.
func (c *Calculator) payload(discSize uint32, p Info) Info {
	align := max(discSize, p.Align, 1)
	off := AlignTo(discSize, align)
	return Info{
		Size:  AlignTo(off+p.Size, align),
		Align: align,
	}
}

func calculateFlags(numFlags int) Info {
	switch {
	case numFlags == 0:
		return Info{Size: 0, Align: 1}
	case numFlags <= 8:
		return Info{Size: 1, Align: 1}
	case numFlags <= 16:
		return Info{Size: 2, Align: 2}
	}
	// >16 flags: one u32 per 32 flags
	numU32s := (numFlags + 31) / 32
	return Info{Size: uint32(numU32s * 4), Align: 4}
}
