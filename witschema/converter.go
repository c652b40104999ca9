package witschema

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/savedump/errors"
	"github.com/wippyai/savedump/types"
	"github.com/wippyai/savedump/witschema/internal/layout"
)

// Converter maps WIT types to descriptors. Converted typedefs are cached,
// so converting the same record twice yields the same descriptor.
// A Converter is not safe for concurrent use.
type Converter struct {
	calc  *layout.Calculator
	cache map[*wit.TypeDef]*types.Type
}

// NewConverter creates a Converter with an empty cache.
func NewConverter() *Converter {
	return &Converter{
		calc:  layout.NewCalculator(),
		cache: make(map[*wit.TypeDef]*types.Type),
	}
}

// Convert returns the descriptor for t.
func (c *Converter) Convert(t wit.Type) (*types.Type, error) {
	return c.convert(t, nil)
}

func (c *Converter) convert(t wit.Type, path []string) (*types.Type, error) {
	switch typ := t.(type) {
	case nil:
		return nil, errors.IncompleteType(errors.PhaseConvert, path, "WIT")
	case wit.Bool, wit.U8:
		return types.Uint8, nil
	case wit.S8:
		return types.Int8, nil
	case wit.U16:
		return types.Uint16, nil
	case wit.S16:
		return types.Int16, nil
	case wit.U32, wit.Char:
		return types.Uint32, nil
	case wit.S32:
		return types.Int32, nil
	case wit.U64:
		return types.Uint64, nil
	case wit.S64:
		return types.Int64, nil
	case wit.F32:
		return types.Float32, nil
	case wit.F64:
		return types.Float64, nil
	case *wit.TypeDef:
		if cached, ok := c.cache[typ]; ok {
			return cached, nil
		}
		out, err := c.convertTypeDef(typ, path)
		if err != nil {
			return nil, err
		}
		c.cache[typ] = out
		return out, nil
	default:
		return nil, errors.Unsupported(errors.PhaseConvert, path, "WIT "+kindName(t)+" has no fixed layout")
	}
}

func (c *Converter) convertTypeDef(td *wit.TypeDef, path []string) (*types.Type, error) {
	switch kind := td.Kind.(type) {
	case *wit.Record:
		name := typeDefName(td)
		if name == "" {
			return nil, errors.InvalidInput(errors.PhaseConvert, "record has no name")
		}
		return c.convertRecord(td, kind, name, path)
	case *wit.Tuple:
		return c.convertTuple(td, kind, path)
	case *wit.Enum:
		return unsignedOfSize(int(c.calc.Calculate(td).Size), path)
	case *wit.Flags:
		return c.convertFlags(td, kind, path)
	case wit.Type:
		return c.convert(kind, path)
	default:
		return nil, errors.Unsupported(errors.PhaseConvert, path, "WIT "+kindName(td.Kind)+" has no fixed layout")
	}
}

func (c *Converter) convertRecord(td *wit.TypeDef, r *wit.Record, name string, path []string) (*types.Type, error) {
	info := c.calc.Calculate(td)
	b := types.NewStruct(name, int(info.Size))
	for i, f := range r.Fields {
		ft, err := c.convert(f.Type, append(clip(path), f.Name))
		if err != nil {
			return nil, err
		}
		b.Add(f.Name, int(info.Offsets[i]), ft)
	}
	st, err := b.Build()
	if err != nil {
		return nil, err
	}
	Logger().Debug("record converted",
		zap.String("name", name),
		zap.Int("size", st.Size()),
		zap.Int("fields", st.NumMembers()),
	)
	return st, nil
}

// convertTuple builds a struct named after its element types, with members
// named by position.
func (c *Converter) convertTuple(td *wit.TypeDef, tup *wit.Tuple, path []string) (*types.Type, error) {
	info := c.calc.Calculate(td)
	elems := make([]*types.Type, len(tup.Types))
	names := make([]string, len(tup.Types))
	for i, et := range tup.Types {
		idx := strconv.Itoa(i)
		t, err := c.convert(et, append(clip(path), idx))
		if err != nil {
			return nil, err
		}
		elems[i] = t
		names[i] = t.Name()
	}

	b := types.NewStruct("tuple<"+strings.Join(names, ",")+">", int(info.Size))
	for i, t := range elems {
		b.Add(strconv.Itoa(i), int(info.Offsets[i]), t)
	}
	return b.Build()
}

// convertFlags maps up to 32 flags onto one unsigned integer and larger sets
// onto an array of 32-bit words.
func (c *Converter) convertFlags(td *wit.TypeDef, f *wit.Flags, path []string) (*types.Type, error) {
	n := len(f.Flags)
	if n == 0 {
		return nil, errors.Unsupported(errors.PhaseConvert, path, "flags without members have no size")
	}
	size := int(c.calc.Calculate(td).Size)
	if n <= 32 {
		return unsignedOfSize(size, path)
	}
	return types.NewArray(size/4, types.Uint32)
}

func unsignedOfSize(size int, path []string) (*types.Type, error) {
	switch size {
	case 1:
		return types.Uint8, nil
	case 2:
		return types.Uint16, nil
	case 4:
		return types.Uint32, nil
	case 8:
		return types.Uint64, nil
	}
	return nil, errors.Unsupported(errors.PhaseConvert, path, "no integer of "+strconv.Itoa(size)+" bytes")
}

func kindName(k any) string {
	switch k.(type) {
	case wit.String:
		return "string"
	case *wit.List:
		return "list"
	case *wit.Option:
		return "option"
	case *wit.Result:
		return "result"
	case *wit.Variant:
		return "variant"
	case *wit.Own:
		return "own"
	case *wit.Borrow:
		return "borrow"
	}
	return fmt.Sprintf("%T", k)
}

func typeDefName(td *wit.TypeDef) string {
	if td.Name == nil {
		return ""
	}
	return *td.Name
}

func clip(path []string) []string {
	return path[:len(path):len(path)]
}
