package witschema

import (
	stderrors "errors"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/savedump/errors"
)

func TestParseFields(t *testing.T) {
	fields, err := ParseFields(" a:s32, b : f32,c:s8 ,")
	if err != nil {
		t.Fatalf("ParseFields: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields", len(fields))
	}
	if fields[0].Name != "a" || fields[1].Name != "b" || fields[2].Name != "c" {
		t.Errorf("names = %s %s %s", fields[0].Name, fields[1].Name, fields[2].Name)
	}
	if _, ok := fields[1].Type.(wit.F32); !ok {
		t.Errorf("b type = %T", fields[1].Type)
	}

	st, err := NewConverter().Convert(NewRecord("Test", fields...))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if st.Size() != 12 {
		t.Errorf("Size = %d", st.Size())
	}
}

func TestParseFieldsErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", errors.ErrInvalidInput},
		{"a", errors.ErrInvalidInput},
		{":s32", errors.ErrInvalidInput},
		{"a:nope", errors.ErrInvalidInput},
		{"a:s32,a:u8", errors.ErrDuplicateMember},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if _, err := ParseFields(tc.input); !stderrors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
