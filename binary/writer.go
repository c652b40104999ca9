package binary

import (
	"encoding/binary"
	"io"
	"math"
	"unsafe"

	"github.com/wippyai/savedump/errors"
)

// PointerSize is the width in bytes of a host pointer.
const PointerSize = int(unsafe.Sizeof(uintptr(0)))

// HostLittleEndian probes the host byte order.
func HostLittleEndian() bool {
	n := uint16(1)
	return *(*byte)(unsafe.Pointer(&n)) == 1
}

// HostOrder returns the host byte order as a binary.ByteOrder.
func HostOrder() binary.ByteOrder {
	if HostLittleEndian() {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Option configures a Writer.
type Option func(*Writer)

// WithByteOrder overrides the host byte order used for integers.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(w *Writer) {
		if order != nil {
			w.order = order
		}
	}
}

// WithMaxSize caps the buffer length. Appends past the cap fail with an
// allocation error. Zero or less means no cap.
func WithMaxSize(n int) Option {
	return func(w *Writer) {
		w.maxSize = max(n, 0)
		w.limited = n > 0
	}
}

// WithCapacity preallocates the backing buffer.
func WithCapacity(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.buf = make([]byte, 0, n)
		}
	}
}

// Writer is a growable append-only byte buffer.
//
// A Writer exclusively owns its backing buffer and is not safe for concurrent
// use. Errors are sticky: after the first failure every append is a no-op and
// Err reports that failure.
type Writer struct {
	order   binary.ByteOrder
	err     error
	buf     []byte
	maxSize int
	limited bool
}

// NewWriter creates a new Writer using the host byte order.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{order: HostOrder()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ByteOrder returns the order used for integers.
func (w *Writer) ByteOrder() binary.ByteOrder {
	return w.order
}

// LittleEndian reports whether integers are written little-endian.
func (w *Writer) LittleEndian() bool {
	return w.order.Uint16([]byte{1, 0}) == 1
}

// Bytes returns the written bytes. The slice aliases the buffer until the
// next append.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Cap returns the capacity of the backing buffer.
func (w *Writer) Cap() int {
	return cap(w.buf)
}

// Err returns the first error encountered by an append.
func (w *Writer) Err() error {
	return w.err
}

// Reset empties the writer and clears its error, keeping the allocation.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
}

// grow extends the buffer by n bytes and returns the new region.
// Returns nil if the writer has failed.
func (w *Writer) grow(n int) []byte {
	if w.err != nil {
		return nil
	}
	cur := len(w.buf)
	if n < 0 || cur > math.MaxInt-n {
		w.err = errors.AllocationFailed(errors.PhaseEncode, math.MaxInt, w.maxSize)
		return nil
	}
	size := cur + n
	if w.limited && size > w.maxSize {
		w.err = errors.AllocationFailed(errors.PhaseEncode, size, w.maxSize)
		return nil
	}
	if size > cap(w.buf) {
		w.realloc(size)
	}
	w.buf = w.buf[:size]
	return w.buf[cur:size]
}

// realloc moves the buffer to a fresh allocation of 1.5x the requested size.
func (w *Writer) realloc(size int) {
	newCap := size + (size+1)>>1
	if newCap < size || (w.limited && newCap > w.maxSize) {
		newCap = max(size, w.maxSize)
	}
	buf := make([]byte, len(w.buf), newCap)
	copy(buf, w.buf)
	w.buf = buf
}

// Int32 writes a 4-byte integer.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Uint32 writes a 4-byte unsigned integer.
func (w *Writer) Uint32(v uint32) {
	if p := w.grow(4); p != nil {
		w.order.PutUint32(p, v)
	}
}

// Int64 writes an 8-byte integer.
func (w *Writer) Int64(v int64) {
	w.Uint64(uint64(v))
}

// Uint64 writes an 8-byte unsigned integer.
func (w *Writer) Uint64(v uint64) {
	if p := w.grow(8); p != nil {
		w.order.PutUint64(p, v)
	}
}

// Uintptr writes v truncated to the host pointer width.
func (w *Writer) Uintptr(v uint64) {
	if PointerSize == 4 {
		w.Uint32(uint32(v))
		return
	}
	w.Uint64(v)
}

// Int writes n as a 4-byte integer, failing if it does not fit.
func (w *Writer) Int(n int) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		w.fail(errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(n).
			Detail("%d does not fit in int32", n).
			Build())
		return
	}
	w.Int32(int32(n))
}

// String writes a 4-byte length followed by the raw bytes, no terminator.
func (w *Writer) String(s string) {
	w.Int(len(s))
	if p := w.grow(len(s)); p != nil {
		copy(p, s)
	}
}

// Magic writes a raw tag without a length prefix.
func (w *Writer) Magic(tag string) {
	if p := w.grow(len(tag)); p != nil {
		copy(p, tag)
	}
}

// Dump copies data verbatim.
func (w *Writer) Dump(data []byte) {
	if p := w.grow(len(data)); p != nil {
		copy(p, data)
	}
}

// Align advances the cursor to the next multiple of n, zero-filling the gap.
func (w *Writer) Align(n int) {
	if n <= 0 {
		w.fail(errors.InvalidInput(errors.PhaseEncode, "alignment must be positive"))
		return
	}
	pad := (n - len(w.buf)%n) % n
	if p := w.grow(pad); p != nil {
		clear(p)
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.Dump(p)
	if w.err != nil {
		return 0, w.err
	}
	return len(p), nil
}

// WriteTo implements io.WriterTo.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := dst.Write(w.buf)
	return int64(n), err
}

// Clone returns a deep copy with its own backing buffer.
func (w *Writer) Clone() *Writer {
	c := &Writer{order: w.order, err: w.err, maxSize: w.maxSize, limited: w.limited}
	if w.buf != nil {
		c.buf = make([]byte, len(w.buf), cap(w.buf))
		copy(c.buf, w.buf)
	}
	return c
}

// Move transfers the buffer into a new writer and leaves w empty.
func (w *Writer) Move() *Writer {
	m := &Writer{order: w.order, err: w.err, buf: w.buf, maxSize: w.maxSize, limited: w.limited}
	w.buf = nil
	w.err = nil
	return m
}

// CopyFrom replaces w's contents with a deep copy of src.
func (w *Writer) CopyFrom(src *Writer) {
	if src == w {
		return
	}
	*w = *src.Clone()
}

// MoveFrom takes ownership of src's buffer, leaving src empty.
func (w *Writer) MoveFrom(src *Writer) {
	if src == w {
		return
	}
	*w = *src.Move()
}

// Stage returns an empty writer with w's byte order, capped to the room left
// in w. Encode into the stage and Commit it to make a write all-or-nothing.
func (w *Writer) Stage() *Writer {
	s := &Writer{order: w.order}
	if w.limited {
		s.limited = true
		s.maxSize = max(w.maxSize-len(w.buf), 0)
	}
	return s
}

// Commit appends the bytes of a stage. On error w is left unchanged.
func (w *Writer) Commit(stage *Writer) error {
	if w.err != nil {
		return w.err
	}
	if stage.err != nil {
		return stage.err
	}
	w.Dump(stage.buf)
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
