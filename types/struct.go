package types

import (
	"math"

	"github.com/wippyai/savedump/errors"
)

// StructBuilder assembles a struct descriptor member by member.
//
// The descriptor under construction is available through Type before Build,
// so a struct can hold a pointer to itself:
//
//	b := types.NewStruct("Node", 16)
//	next, _ := types.NewPointer(b.Type())
//	b.Add("value", 0, types.Int64).Add("next", 8, next)
//	node, err := b.Build()
//
// Errors are sticky and reported by Build.
type StructBuilder struct {
	t   *Type
	err error
}

// NewStruct starts a struct named name occupying size bytes.
func NewStruct(name string, size int) *StructBuilder {
	b := &StructBuilder{
		t: &Type{
			kind:  KindStruct,
			name:  name,
			size:  size,
			index: make(map[string]int),
		},
	}
	switch {
	case name == "":
		b.err = errors.InvalidInput(errors.PhaseBuild, "struct name is empty")
	case size < 0 || size > math.MaxInt32:
		b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(name).
			Value(size).
			Detail("struct size %d out of range", size).
			Build()
	}
	return b
}

// Add appends a member at offset. Members are append-only.
func (b *StructBuilder) Add(name string, offset int, t *Type) *StructBuilder {
	if b.err != nil {
		return b
	}
	st := b.t
	path := []string{st.name, name}

	switch {
	case st.built:
		b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(st.name).
			Path(path...).
			Detail("struct already built").
			Build()
	case name == "":
		b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(st.name).
			Detail("member %d has no name", len(st.members)).
			Build()
	case t == nil:
		b.err = errors.IncompleteType(errors.PhaseBuild, path, "member")
	case t == st:
		b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			TypeName(st.name).
			Path(path...).
			Detail("struct contains itself by value, use a pointer").
			Build()
	case t.kind == KindStruct && !t.built:
		b.err = errors.New(errors.PhaseBuild, errors.KindIncompleteType).
			TypeName(t.name).
			Path(path...).
			Detail("member struct not built").
			Build()
	case offset < 0 || offset > st.size-t.size:
		b.err = errors.OutOfBounds(errors.PhaseBuild, path, offset, t.size, st.size)
	default:
		if _, dup := st.index[name]; dup {
			b.err = errors.DuplicateMember(st.name, name)
			return b
		}
		st.index[name] = len(st.members)
		st.members = append(st.members, Member{Name: name, Offset: offset, Type: t})
	}
	return b
}

// Type returns the descriptor under construction. It must not be serialized
// before Build succeeds.
func (b *StructBuilder) Type() *Type {
	return b.t
}

// Err returns the first error recorded by the builder.
func (b *StructBuilder) Err() error {
	return b.err
}

// Build finalizes the struct. Further Add calls fail.
func (b *StructBuilder) Build() (*Type, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.t.built = true
	return b.t, nil
}
