package schema

import "fmt"

// CompileError reasons.
const (
	ReasonUnsupportedAtomicType  = "unsupported_atomic_type"
	ReasonMalformedArrayDef      = "malformed_array_definition"
	ReasonEmptyEnum              = "empty_enum"
	ReasonEmptyObject            = "empty_object"
	ReasonNilNode                = "nil_node"
	ReasonDuplicateField         = "duplicate_field"
	ReasonMalformedOptionalWrap  = "malformed_optional_wrapper"
	ReasonUnsupportedDeclaration = "unsupported_declaration"
)

// CompileError reports a malformed declarative schema. It is surfaced before
// any generation call is made and is never retried.
type CompileError struct {
	Reason string
	Detail string
}

func (e *CompileError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("schema compile error: %s", e.Reason)
	}
	return fmt.Sprintf("schema compile error: %s: %s", e.Reason, e.Detail)
}

func compileErrorf(reason, format string, args ...any) *CompileError {
	return &CompileError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
