package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in a boundary call the error occurred
type Phase string

const (
	PhaseAllocate Phase = "allocate" // handle allocation
	PhaseAccess   Phase = "access"   // handle lookup and variant access
	PhaseRelease  Phase = "release"  // handle deallocation
	PhaseDecode   Phase = "decode"   // request payload to Go
	PhaseEncode   Phase = "encode"   // Go to response payload
	PhaseUpstream Phase = "upstream" // delegated model operation
	PhaseChannel  Phase = "channel"  // result/error slot transfer
	PhaseBoundary Phase = "boundary" // host function entry
	PhaseLoad     Phase = "load"     // model or guest loading
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindTypeMismatch    Kind = "type_mismatch"
	KindDeserialization Kind = "deserialization"
	KindSerialization   Kind = "serialization"
	KindUpstream        Kind = "upstream"
	KindLockPoisoned    Kind = "lock_poisoned"
	KindInvalidInput    Kind = "invalid_input"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindUnsupported     Kind = "unsupported"
	KindClosed          Kind = "closed"
	KindPanic           Kind = "panic"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Table  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Table != "" {
		b.WriteString(" in ")
		b.WriteString(e.Table)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any *Error in err's chain has the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
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

// Table sets the resource table name
func (b *Builder) Table(name string) *Builder {
	b.err.Table = name
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

// Convenience constructors for the bridge taxonomy

// NotFound creates an error for a handle that is absent or already removed
func NotFound(phase Phase, table string, handle any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Table:  table,
		Detail: fmt.Sprintf("no resource at handle %v", handle),
		Value:  handle,
	}
}

// TypeMismatch creates an error for a variant whose tag differs from the expected one
func TypeMismatch(table string, handle any, want, got string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindTypeMismatch,
		Table:  table,
		Detail: fmt.Sprintf("expected %s at handle %v, found %s", want, handle, got),
		Value:  handle,
	}
}

// Deserialization creates an error for a malformed or schema-violating request
func Deserialization(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindDeserialization,
		Detail: fmt.Sprintf("failed to parse %s", what),
		Cause:  cause,
	}
}

// Serialization creates an error for a response that could not be encoded
func Serialization(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindSerialization,
		Detail: fmt.Sprintf("failed to serialize %s", what),
		Cause:  cause,
	}
}

// Upstream wraps a failure of the delegated model operation
func Upstream(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseUpstream,
		Kind:   KindUpstream,
		Detail: detail,
		Cause:  cause,
	}
}

// LockPoisoned creates the fatal error returned by a table or slot whose
// lock was held by a failed operation
func LockPoisoned(phase Phase, table string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLockPoisoned,
		Table:  table,
		Detail: "lock poisoned by an earlier failure; state is unusable",
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

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (size %d)", offset, offset+length, size),
		Value:  offset,
	}
}

// Closed creates an error for operations on a closed table
func Closed(phase Phase, table string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Table:  table,
		Detail: "table closed",
	}
}

// Panic converts a recovered panic value into an error
func Panic(phase Phase, v any) *Error {
	if err, ok := v.(error); ok {
		return &Error{
			Phase:  phase,
			Kind:   KindPanic,
			Detail: "recovered panic",
			Cause:  err,
		}
	}
	return &Error{
		Phase:  phase,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("recovered panic: %v", v),
		Value:  v,
	}
}

// Load creates a model or guest loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindUpstream,
		Detail: detail,
		Cause:  cause,
	}
}

// Config creates a configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}
