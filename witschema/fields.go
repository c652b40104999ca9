package witschema

import (
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/savedump/errors"
)

// NewRecord returns a named record typedef with the given fields.
func NewRecord(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}

// ParseFields parses a comma separated list of name:type pairs, such as
// "a:s32, b:f32, c:s8". Types are WIT primitive type names.
func ParseFields(s string) ([]wit.Field, error) {
	var fields []wit.Field
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typ, ok := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
				Value(part).
				Detail("field %q is not name:type", part).
				Build()
		}
		if seen[name] {
			return nil, errors.DuplicateMember("", name)
		}
		seen[name] = true

		t, err := wit.ParseType(strings.TrimSpace(typ))
		if err != nil {
			return nil, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
				Path(name).
				Detail("unknown type %q", strings.TrimSpace(typ)).
				Cause(err).
				Build()
		}
		fields = append(fields, wit.Field{Name: name, Type: t})
	}
	if len(fields) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConvert, "no fields")
	}
	return fields, nil
}
