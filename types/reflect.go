package types

import (
	"reflect"
	"slices"
	"sync"

	"github.com/wippyai/savedump/errors"
)

// reflect.Type -> *Type
var reflectCache sync.Map

// For returns the descriptor of T. See Of.
func For[T any]() (*Type, error) {
	return Of(reflect.TypeFor[T]())
}

// Of derives a descriptor from a Go type using its native memory layout.
//
// Integers, floats and bool map to numeric descriptors (int, uint and uintptr
// by platform width, bool as an unsigned byte), arrays to arrays, pointers to
// pointers and structs to structs whose member offsets come from
// reflect.StructField.Offset. Member names come from a `save:"name"` tag or
// the Go field name; `save:"-"` and blank fields are skipped.
//
// Struct descriptors are interned in the Default registry. Strings, slices,
// maps, channels, funcs, interfaces and complex numbers are unsupported.
func Of(rt reflect.Type) (*Type, error) {
	if rt == nil {
		return nil, errors.IncompleteType(errors.PhaseConvert, nil, "Go")
	}
	if cached, ok := reflectCache.Load(rt); ok {
		return cached.(*Type), nil
	}

	r := &reflector{pending: make(map[reflect.Type]*StructBuilder)}
	t, err := r.of(rt, []string{rt.String()})
	if err != nil {
		return nil, err
	}

	actual, _ := reflectCache.LoadOrStore(rt, t)
	return actual.(*Type), nil
}

type reflector struct {
	pending map[reflect.Type]*StructBuilder
}

func (r *reflector) of(rt reflect.Type, path []string) (*Type, error) {
	if cached, ok := reflectCache.Load(rt); ok {
		return cached.(*Type), nil
	}

	switch rt.Kind() {
	case reflect.Bool, reflect.Uint8:
		return Uint8, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Uint16:
		return Uint16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Uint32:
		return Uint32, nil
	case reflect.Int64:
		return Int64, nil
	case reflect.Uint64:
		return Uint64, nil
	case reflect.Int:
		if rt.Size() == 4 {
			return Int32, nil
		}
		return Int64, nil
	case reflect.Uint, reflect.Uintptr:
		if rt.Size() == 4 {
			return Uint32, nil
		}
		return Uint64, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil
	case reflect.Array:
		elem, err := r.of(rt.Elem(), append(slices.Clip(path), "[]"))
		if err != nil {
			return nil, err
		}
		return NewArray(rt.Len(), elem)
	case reflect.Pointer:
		elem, err := r.of(rt.Elem(), append(slices.Clip(path), "*"))
		if err != nil {
			return nil, err
		}
		return NewPointer(elem)
	case reflect.Struct:
		return r.structOf(rt, path)
	default:
		return nil, errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Path(path...).
			TypeName(rt.String()).
			Detail("%s values have no fixed layout", rt.Kind()).
			Build()
	}
}

func (r *reflector) structOf(rt reflect.Type, path []string) (*Type, error) {
	if b, ok := r.pending[rt]; ok {
		return b.Type(), nil
	}

	name := rt.Name()
	if name == "" {
		name = rt.String()
	}

	b := NewStruct(name, int(rt.Size()))
	r.pending[rt] = b
	defer delete(r.pending, rt)

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		member := f.Name
		if tag, ok := f.Tag.Lookup("save"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				member = tag
			}
		}
		if member == "_" {
			continue
		}

		fieldPath := append(slices.Clip(path), member)
		ft, err := r.of(f.Type, fieldPath)
		if err != nil {
			return nil, err
		}
		b.Add(member, int(f.Offset), ft)
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	return Register(t)
}
