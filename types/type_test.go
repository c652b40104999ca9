package types

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"testing"

	savebin "github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/errors"
)

func TestNumericDescriptors(t *testing.T) {
	tests := []struct {
		typ  *Type
		kind Kind
		name string
		size int
	}{
		{Int8, KindInt8, "int8", 1},
		{Int16, KindInt16, "int16", 2},
		{Int32, KindInt32, "int32", 4},
		{Int64, KindInt64, "int64", 8},
		{Uint8, KindUint8, "int8", 1},
		{Uint16, KindUint16, "int16", 2},
		{Uint32, KindUint32, "int32", 4},
		{Uint64, KindUint64, "int64", 8},
		{Float32, KindFloat32, "float32", 4},
		{Float64, KindFloat64, "float64", 8},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if tc.typ.Kind() != tc.kind {
				t.Errorf("Kind() = %v, want %v", tc.typ.Kind(), tc.kind)
			}
			if tc.typ.Name() != tc.name {
				t.Errorf("Name() = %q, want %q", tc.typ.Name(), tc.name)
			}
			if tc.typ.Size() != tc.size {
				t.Errorf("Size() = %d, want %d", tc.typ.Size(), tc.size)
			}
			got, err := NewNumeric(tc.kind)
			if err != nil || got != tc.typ {
				t.Errorf("NewNumeric(%v) = %v, %v", tc.kind, got, err)
			}
		})
	}
}

func TestUnsignedSharesSignedName(t *testing.T) {
	pairs := [][2]*Type{
		{Int8, Uint8},
		{Int16, Uint16},
		{Int32, Uint32},
		{Int64, Uint64},
	}
	for _, p := range pairs {
		if p[0].Name() != p[1].Name() {
			t.Errorf("%v and %v should share a name, got %q and %q", p[0].Kind(), p[1].Kind(), p[0].Name(), p[1].Name())
		}
		if p[0].Kind() == p[1].Kind() {
			t.Errorf("%v and %v should keep distinct tags", p[0].Kind(), p[1].Kind())
		}
		if !SameLayout(p[0], p[1]) {
			t.Errorf("%v and %v should have the same layout", p[0].Kind(), p[1].Kind())
		}
	}
	if SameLayout(Int32, Float32) {
		t.Error("int32 and float32 must not match")
	}
}

func TestKindTags(t *testing.T) {
	tests := []struct {
		kind Kind
		tag  int32
		name string
	}{
		{KindInt8, 0, "int8"},
		{KindInt16, 1, "int16"},
		{KindInt32, 2, "int32"},
		{KindInt64, 3, "int64"},
		{KindFloat32, 4, "float32"},
		{KindFloat64, 5, "float64"},
		{KindStruct, 6, "struct"},
		{KindArray, 7, "array"},
		{KindPointer, 8, "pointer"},
		{KindUint8, 32, "uint8"},
		{KindUint16, 33, "uint16"},
		{KindUint32, 34, "uint32"},
		{KindUint64, 35, "uint64"},
		{Kind(99), 99, "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if int32(tc.kind) != tc.tag {
				t.Errorf("tag = %d, want %d", int32(tc.kind), tc.tag)
			}
			if tc.kind.String() != tc.name {
				t.Errorf("String() = %q, want %q", tc.kind.String(), tc.name)
			}
		})
	}

	if KindStruct.IsNumeric() || KindArray.IsNumeric() || KindPointer.IsNumeric() {
		t.Error("composite kinds reported numeric")
	}
	if _, err := NewNumeric(KindStruct); !stderrors.Is(err, errors.ErrUnsupported) {
		t.Errorf("NewNumeric(struct) err = %v", err)
	}
}

func TestArray(t *testing.T) {
	arr, err := NewArray(10, Int32)
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if arr.Name() != "int32[10]" {
		t.Errorf("Name() = %q, want int32[10]", arr.Name())
	}
	if arr.Size() != 40 {
		t.Errorf("Size() = %d, want 40", arr.Size())
	}
	if arr.Len() != 10 || arr.Elem() != Int32 {
		t.Errorf("Len/Elem = %d/%v", arr.Len(), arr.Elem())
	}

	nested, err := NewArray(2, arr)
	if err != nil {
		t.Fatalf("nested: %v", err)
	}
	if nested.Name() != "int32[10][2]" {
		t.Errorf("nested Name() = %q", nested.Name())
	}

	if _, err := NewArray(3, nil); !stderrors.Is(err, errors.ErrIncompleteType) {
		t.Errorf("nil element err = %v", err)
	}
	if _, err := NewArray(-1, Int8); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("negative length err = %v", err)
	}
	if _, err := NewArray(1<<30, Int64); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("oversized array err = %v", err)
	}
}

func TestPointer(t *testing.T) {
	p, err := NewPointer(Float64)
	if err != nil {
		t.Fatalf("NewPointer: %v", err)
	}
	if p.Name() != "*float64" {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.Size() != PointerSize {
		t.Errorf("Size() = %d, want %d", p.Size(), PointerSize)
	}
	pp, _ := NewPointer(p)
	if pp.Name() != "**float64" {
		t.Errorf("Name() = %q", pp.Name())
	}
	if _, err := NewPointer(nil); !stderrors.Is(err, errors.ErrIncompleteType) {
		t.Errorf("nil pointee err = %v", err)
	}
}

func TestSerialize(t *testing.T) {
	le := binary.LittleEndian
	str := func(s string) []byte {
		return append(le.AppendUint32(nil, uint32(len(s))), s...)
	}
	i32 := func(v int32) []byte { return le.AppendUint32(nil, uint32(v)) }
	cat := func(parts ...[]byte) []byte { return bytes.Join(parts, nil) }

	arr, _ := NewArray(10, Int32)
	ptr, _ := NewPointer(Float32)
	st, err := NewStruct("Test", 12).
		Add("a", 0, Int32).
		Add("b", 4, Float32).
		Add("c", 8, Int8).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		name string
		typ  *Type
		want []byte
	}{
		{"numeric", Int32, i32(2)},
		{"unsigned", Uint32, i32(34)},
		{"array", arr, cat(i32(7), i32(10), str("int32"))},
		{"pointer", ptr, cat(i32(8), str("float32"))},
		{"struct", st, cat(
			i32(6), i32(12), str("Test"), i32(3),
			str("a"), str("int32"), i32(0),
			str("b"), str("float32"), i32(4),
			str("c"), str("int8"), i32(8),
		)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := savebin.NewWriter(savebin.WithByteOrder(binary.LittleEndian))
			tc.typ.Serialize(w)
			if err := w.Err(); err != nil {
				t.Fatalf("writer error: %v", err)
			}
			if !bytes.Equal(w.Bytes(), tc.want) {
				t.Errorf("got  %v\nwant %v", w.Bytes(), tc.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	arr, _ := NewArray(4, Int8)
	ptr, _ := NewPointer(Int8)
	st, _ := NewStruct("S", 4).Add("x", 0, Int32).Build()

	tests := []struct {
		typ  *Type
		want string
	}{
		{Uint16, "uint16"},
		{arr, "array[4] of int8"},
		{ptr, "pointer to int8"},
		{st, "struct(4 bytes, 1 members)"},
	}
	for _, tc := range tests {
		if got := tc.typ.Describe(); got != tc.want {
			t.Errorf("Describe(%s) = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestSameLayout(t *testing.T) {
	a, _ := NewStruct("P", 8).Add("x", 0, Int32).Add("y", 4, Int32).Build()
	b, _ := NewStruct("P", 8).Add("x", 0, Uint32).Add("y", 4, Int32).Build()
	c, _ := NewStruct("P", 8).Add("x", 0, Int32).Add("z", 4, Int32).Build()
	d, _ := NewStruct("P", 12).Add("x", 0, Int32).Add("y", 4, Int32).Build()
	arr5, _ := NewArray(5, Int8)
	arr5u, _ := NewArray(5, Uint8)

	if !SameLayout(a, b) {
		t.Error("members differing only in signedness should match")
	}
	if SameLayout(a, c) {
		t.Error("different member names should not match")
	}
	if SameLayout(a, d) {
		t.Error("different sizes should not match")
	}
	if !SameLayout(arr5, arr5u) {
		t.Error("arrays with same element name should match")
	}
	if SameLayout(a, nil) {
		t.Error("nil should not match")
	}
}
