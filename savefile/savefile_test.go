package savefile

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	savebin "github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/errors"
	"github.com/wippyai/savedump/types"
)

type sample struct {
	A int32   `save:"a"`
	B float32 `save:"b"`
	C int8    `save:"c"`
}

func sampleType(t *testing.T) *types.Type {
	t.Helper()
	st, err := types.NewStruct("Test", int(unsafe.Sizeof(sample{}))).
		Add("a", int(unsafe.Offsetof(sample{}.A)), types.Int32).
		Add("b", int(unsafe.Offsetof(sample{}.B)), types.Float32).
		Add("c", int(unsafe.Offsetof(sample{}.C)), types.Int8).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return st
}

func sampleBytes() []byte {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:], 1)
	binary.LittleEndian.PutUint32(data[4:], math.Float32bits(2))
	data[8] = 3
	return data
}

func TestWriteFileLayout(t *testing.T) {
	st := sampleType(t)
	data := sampleBytes()

	w := savebin.NewWriter(savebin.WithByteOrder(binary.LittleEndian))
	sum, err := WriteFile(w, []Object{Raw(st, 0x1000, data)})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	want := savebin.NewWriter(savebin.WithByteOrder(binary.LittleEndian))
	want.Magic("SAVE")
	want.Int32(0)
	want.Int32(1)
	want.Int32(4)
	// Test
	want.Int32(6)
	want.Int32(12)
	want.String("Test")
	want.Int32(3)
	want.String("a")
	want.String("int32")
	want.Int32(0)
	want.String("b")
	want.String("float32")
	want.Int32(4)
	want.String("c")
	want.String("int8")
	want.Int32(8)
	// float32, int32, int8
	want.Int32(5)
	want.Int32(2)
	want.Int32(0)
	// object
	want.Int32(0)
	want.Int32(12)
	want.Uintptr(0x1000)
	want.Dump(data)

	if !bytes.Equal(w.Bytes(), want.Bytes()) {
		t.Errorf("dump mismatch\n got %v\nwant %v", w.Bytes(), want.Bytes())
	}
	if sum.Objects != 1 || sum.Types != 4 || sum.Bytes != w.Len() {
		t.Errorf("Summary = %+v", sum)
	}
}

func TestWriteFileEndianness(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		flag  []byte
	}{
		{"little", binary.LittleEndian, []byte{1, 0, 0, 0}},
		{"big", binary.BigEndian, []byte{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := savebin.NewWriter(savebin.WithByteOrder(tt.order))
			if _, err := WriteFile(w, nil); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			b := w.Bytes()
			if string(b[:4]) != Magic {
				t.Errorf("magic = %q", b[:4])
			}
			if !bytes.Equal(b[8:12], tt.flag) {
				t.Errorf("endianness = %v, want %v", b[8:12], tt.flag)
			}
			// empty schema, no objects
			if len(b) != 16 {
				t.Errorf("Len = %d, want 16", len(b))
			}
		})
	}
}

func TestWriteFileAppends(t *testing.T) {
	st := sampleType(t)
	w := savebin.NewWriter()
	w.Magic("prefix")

	if _, err := WriteFile(w, []Object{Raw(st, 0, sampleBytes())}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(w.Bytes(), []byte("prefixSAVE")) {
		t.Errorf("dump did not append after existing bytes: %q", w.Bytes()[:10])
	}
}

func TestWriteFileRejects(t *testing.T) {
	st := sampleType(t)
	small, _ := types.NewStruct("Vec", 8).Add("x", 0, types.Float32).Build()
	big, _ := types.NewStruct("Vec", 12).Add("x", 0, types.Float32).Build()

	tests := []struct {
		name    string
		objects []Object
		want    error
	}{
		{"nil type", []Object{{Data: []byte{1}}}, errors.ErrIncompleteType},
		{"short data", []Object{Raw(st, 0, make([]byte, 11))}, errors.ErrSizeMismatch},
		{"long data", []Object{Raw(st, 0, make([]byte, 13))}, errors.ErrSizeMismatch},
		{"conflict", []Object{Raw(small, 0, make([]byte, 8)), Raw(big, 0, make([]byte, 12))}, errors.ErrSchemaConflict},
		{"bad after good", []Object{Raw(st, 0, sampleBytes()), Raw(st, 0, nil)}, errors.ErrSizeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := savebin.NewWriter()
			w.Magic("keep")
			_, err := WriteFile(w, tt.objects)
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if string(w.Bytes()) != "keep" || w.Err() != nil {
				t.Errorf("destination changed: %q, %v", w.Bytes(), w.Err())
			}
		})
	}
}

func TestWriteFileAllocationLeavesDestination(t *testing.T) {
	st := sampleType(t)
	w := savebin.NewWriter(savebin.WithMaxSize(40))
	w.Magic("keep")

	_, err := WriteFile(w, []Object{Raw(st, 0, sampleBytes())})
	if !stderrors.Is(err, errors.ErrAllocation) {
		t.Fatalf("err = %v, want allocation", err)
	}
	if string(w.Bytes()) != "keep" || w.Err() != nil {
		t.Errorf("destination changed: %q, %v", w.Bytes(), w.Err())
	}
}

func TestWriteFileFailedWriter(t *testing.T) {
	w := savebin.NewWriter(savebin.WithMaxSize(1))
	w.Int32(1)
	if _, err := WriteFile(w, nil); !stderrors.Is(err, errors.ErrAllocation) {
		t.Errorf("err = %v, want the writer's sticky error", err)
	}
	if _, err := WriteFile(nil, nil); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("nil writer err = %v", err)
	}
}

func TestWriteFileHasNoObjectCount(t *testing.T) {
	st := sampleType(t)
	one := savebin.NewWriter()
	if _, err := WriteFile(one, []Object{Raw(st, 0, sampleBytes())}); err != nil {
		t.Fatal(err)
	}
	two := savebin.NewWriter()
	sum, err := WriteFile(two, []Object{Raw(st, 0, sampleBytes()), Raw(st, 0, sampleBytes())})
	if err != nil {
		t.Fatal(err)
	}

	record := 4 + 4 + savebin.PointerSize + st.Size()
	if two.Len()-one.Len() != record {
		t.Errorf("second object added %d bytes, want exactly one record of %d", two.Len()-one.Len(), record)
	}
	if sum.Objects != 2 {
		t.Errorf("Summary.Objects = %d", sum.Objects)
	}
}

func TestWriteFileSharedName(t *testing.T) {
	w := savebin.NewWriter(savebin.WithByteOrder(binary.LittleEndian))
	objects := []Object{
		Raw(types.Int32, 0, make([]byte, 4)),
		Raw(types.Uint32, 0, make([]byte, 4)),
	}
	sum, err := WriteFile(w, objects)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if sum.Types != 1 {
		t.Errorf("Types = %d, want one shared int32 entry", sum.Types)
	}
}

func TestValueOf(t *testing.T) {
	st := sampleType(t)
	v := &sample{A: 1, B: 2, C: 3}

	obj, err := ValueOf(st, v)
	if err != nil {
		t.Fatalf("ValueOf: %v", err)
	}
	if obj.Addr != uint64(uintptr(unsafe.Pointer(v))) {
		t.Errorf("Addr = %#x", obj.Addr)
	}
	if len(obj.Data) != st.Size() {
		t.Fatalf("len(Data) = %d", len(obj.Data))
	}
	v.A = 7
	if got := savebin.HostOrder().Uint32(obj.Data); got != 7 {
		t.Errorf("data does not alias the value: a = %d", got)
	}

	var wrong int64
	if _, err := ValueOf(st, &wrong); !stderrors.Is(err, errors.ErrSizeMismatch) {
		t.Errorf("size mismatch err = %v", err)
	}
	if _, err := ValueOf[sample](st, nil); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("nil value err = %v", err)
	}
	if _, err := ValueOf(nil, v); !stderrors.Is(err, errors.ErrIncompleteType) {
		t.Errorf("nil type err = %v", err)
	}
}

type sliceMemory []byte

func (m sliceMemory) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m)) {
		return nil, stderrors.New("out of range")
	}
	return m[offset:end], nil
}

func TestFromMemory(t *testing.T) {
	st := sampleType(t)
	mem := make(sliceMemory, 64)
	copy(mem[16:], sampleBytes())

	obj, err := FromMemory(mem, st, 16)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}
	if obj.Addr != 16 || !bytes.Equal(obj.Data, sampleBytes()) {
		t.Errorf("obj = %+v", obj)
	}
	mem[16] = 0xff
	if obj.Data[0] == 0xff {
		t.Error("snapshot aliases memory")
	}

	_, err = FromMemory(mem, st, 60)
	if !stderrors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("err = %v, want out of bounds", err)
	}
	if _, err := FromMemory(nil, st, 0); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("nil memory err = %v", err)
	}
}

func TestCreate(t *testing.T) {
	st := sampleType(t)
	path := filepath.Join(t.TempDir(), "out.sav")

	sum, err := Create(path, []Object{Raw(st, 0, sampleBytes())})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != sum.Bytes || string(data[:4]) != Magic {
		t.Errorf("file has %d bytes, summary %d", len(data), sum.Bytes)
	}

	bad := filepath.Join(t.TempDir(), "missing", "out.sav")
	if _, err := Create(bad, nil); !stderrors.Is(err, errors.ErrIO) {
		t.Errorf("err = %v, want io", err)
	}
}
