package savefile

import (
	"bytes"
	"unsafe"

	"github.com/wippyai/savedump"
	"github.com/wippyai/savedump/errors"
	"github.com/wippyai/savedump/types"
)

// Object is one record of the object stream: a descriptor, the address the
// bytes were taken from and exactly Type.Size() bytes of data.
type Object struct {
	Type *types.Type
	Data []byte
	Addr uint64
}

// ValueOf describes the Go value *v with t. The object's data aliases v, so
// later changes to *v are visible until the object is written.
func ValueOf[T any](t *types.Type, v *T) (Object, error) {
	if t == nil {
		return Object{}, errors.IncompleteType(errors.PhaseWrite, nil, "object")
	}
	if v == nil {
		return Object{}, errors.InvalidInput(errors.PhaseWrite, "value pointer is nil")
	}
	size := int(unsafe.Sizeof(*v))
	if size != t.Size() {
		return Object{}, errors.SizeMismatch(errors.PhaseWrite, t.Name(), size, t.Size())
	}
	p := unsafe.Pointer(v)
	return Object{
		Type: t,
		Data: unsafe.Slice((*byte)(p), size),
		Addr: uint64(uintptr(p)),
	}, nil
}

// FromMemory snapshots Type.Size() bytes at addr out of mem.
func FromMemory(mem savedump.Memory, t *types.Type, addr uint32) (Object, error) {
	if t == nil {
		return Object{}, errors.IncompleteType(errors.PhaseWrite, nil, "object")
	}
	if mem == nil {
		return Object{}, errors.InvalidInput(errors.PhaseWrite, "memory is nil")
	}
	data, err := mem.Read(addr, uint32(t.Size()))
	if err != nil {
		return Object{}, errors.New(errors.PhaseWrite, errors.KindOutOfBounds).
			TypeName(t.Name()).
			Value(addr).
			Detail("read %d bytes at %#x", t.Size(), addr).
			Cause(err).
			Build()
	}
	return Object{Type: t, Data: bytes.Clone(data), Addr: uint64(addr)}, nil
}

// Raw pairs already captured bytes with a descriptor. The size is checked
// when the object is written.
func Raw(t *types.Type, addr uint64, data []byte) Object {
	return Object{Type: t, Data: data, Addr: addr}
}

func (o Object) validate(index int) error {
	if o.Type == nil {
		return errors.New(errors.PhaseWrite, errors.KindIncompleteType).
			Value(index).
			Detail("object %d has no type", index).
			Build()
	}
	if len(o.Data) != o.Type.Size() {
		err := errors.SizeMismatch(errors.PhaseWrite, o.Type.Name(), len(o.Data), o.Type.Size())
		err.Value = index
		return err
	}
	return nil
}
