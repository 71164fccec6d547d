// Package errors provides structured error types for the bertml bridge.
//
// Errors are categorized by Phase (where in a boundary call the error
// occurred) and Kind (error category). The Kind values map onto the failure
// taxonomy callers see through the error channel:
//
//	KindNotFound        handle absent or already removed
//	KindTypeMismatch    variant tag differs from the expected kind
//	KindDeserialization malformed or schema-violating request payload
//	KindUpstream        the delegated model operation failed
//	KindLockPoisoned    a table or slot was left unusable by a failed operation
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindTypeMismatch).
//		Table("models").
//		Detail("expected %s, found %s", want, got).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseAccess, "models", handle)
//	err := errors.Deserialization("sentiment input", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on kind alone anywhere in the cause chain.
package errors
