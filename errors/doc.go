// Package errors provides structured error types for the savedump module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the member path, the canonical type name and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuild, errors.KindIncompleteType).
//		Path("Node", "next").
//		TypeName("*Node").
//		Detail("pointee is nil").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SchemaConflict("Vec", "struct(8)", "struct(12)")
//	err := errors.AllocationFailed(errors.PhaseEncode, 1<<20, 1<<16)
//
// Kind-only sentinels (ErrSchemaConflict, ErrIncompleteType, ...) match errors of
// any phase:
//
//	if errors.Is(err, errors.ErrSchemaConflict) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
