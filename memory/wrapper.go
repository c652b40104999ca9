package memory

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/savedump"
	"github.com/wippyai/savedump/errors"
)

// WrapMemory wraps a wazero api.Memory to implement savedump.Memory.
func WrapMemory(mem api.Memory) savedump.Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the savedump.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

// Read returns a view of length bytes at offset. The view aliases guest
// memory and is only valid until the guest next runs or grows its memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseWrite, nil, int(offset), int(length), int(m.Mem.Size()))
	}
	return data, nil
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}
