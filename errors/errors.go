package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild   Phase = "build"   // descriptor construction
	PhaseSchema  Phase = "schema"  // reachability walk and id assignment
	PhaseEncode  Phase = "encode"  // byte writer
	PhaseWrite   Phase = "write"   // object stream
	PhaseConvert Phase = "convert" // foreign type models (reflect, WIT)
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation      Kind = "allocation"
	KindIncompleteType  Kind = "incomplete_type"
	KindSchemaConflict  Kind = "schema_conflict"
	KindTruncatedOutput Kind = "truncated_output"
	KindSizeMismatch    Kind = "size_mismatch"
	KindDuplicateMember Kind = "duplicate_member"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidInput    Kind = "invalid_input"
	KindUnsupported     Kind = "unsupported"
	KindNotFound        Kind = "not_found"
	KindIO              Kind = "io"
)

// Kind-only sentinels for errors.Is; they match an *Error of any phase.
var (
	ErrAllocation      = &Error{Kind: KindAllocation}
	ErrIncompleteType  = &Error{Kind: KindIncompleteType}
	ErrSchemaConflict  = &Error{Kind: KindSchemaConflict}
	ErrTruncatedOutput = &Error{Kind: KindTruncatedOutput}
	ErrSizeMismatch    = &Error{Kind: KindSizeMismatch}
	ErrDuplicateMember = &Error{Kind: KindDuplicateMember}
	ErrOutOfBounds     = &Error{Kind: KindOutOfBounds}
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrUnsupported     = &Error{Kind: KindUnsupported}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrIO              = &Error{Kind: KindIO}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the member path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the canonical type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// IncompleteType reports a composite descriptor built around a nil subtype.
func IncompleteType(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIncompleteType,
		Path:   path,
		Detail: what + " type is nil",
	}
}

// SchemaConflict reports two distinct descriptors sharing a canonical name.
func SchemaConflict(name, existing, incoming string) *Error {
	return &Error{
		Phase:    PhaseSchema,
		Kind:     KindSchemaConflict,
		TypeName: name,
		Detail:   fmt.Sprintf("already defined as %s, redefined as %s", existing, incoming),
	}
}

// AllocationFailed reports a buffer that cannot grow to the requested size.
func AllocationFailed(phase Phase, requested, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to grow buffer to %d bytes (limit %d)", requested, limit),
		Value:  requested,
	}
}

// SizeMismatch reports object bytes that do not match the descriptor size.
func SizeMismatch(phase Phase, typeName string, got, want int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindSizeMismatch,
		TypeName: typeName,
		Detail:   fmt.Sprintf("have %d bytes, descriptor size is %d", got, want),
		Value:    got,
	}
}

// DuplicateMember reports a struct member name added twice.
func DuplicateMember(typeName, member string) *Error {
	return &Error{
		Phase:    PhaseBuild,
		Kind:     KindDuplicateMember,
		TypeName: typeName,
		Path:     []string{member},
		Detail:   fmt.Sprintf("member %q already defined", member),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, size, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("range [%d, %d) exceeds %d bytes", offset, offset+size, limit),
		Value:  offset,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
