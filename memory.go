package savedump

// Memory is a linear address space objects can be snapshotted from.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
}

// MemorySizer provides the current size of a Memory in bytes.
type MemorySizer interface {
	Size() uint32
}
