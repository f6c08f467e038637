package runtime

import "fmt"

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	UnboundVariable ErrorKind = iota
	TypeMismatch
	ArityMismatch
	EmptyListAccess
	NoMatchingClause
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundVariable:
		return "UnboundVariable"
	case TypeMismatch:
		return "TypeMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case EmptyListAccess:
		return "EmptyListAccess"
	case NoMatchingClause:
		return "NoMatchingClause"
	default:
		return fmt.Sprintf("unknown_error_kind_%d", int(k))
	}
}

// EvalError is the typed failure raised at the point of detection and
// propagated unhandled to the caller of Evaluate.
type EvalError struct {
	Kind    ErrorKind
	Message string
}

func (e *EvalError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Is matches any EvalError of the same kind, so callers can assert the
// taxonomy with errors.Is(err, &EvalError{Kind: ...}).
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether err is an EvalError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := err.(*EvalError)
	return ok && e.Kind == kind
}

func NewUnboundVariable(name string) error {
	return &EvalError{Kind: UnboundVariable, Message: fmt.Sprintf("variable %q is not bound", name)}
}

func NewTypeMismatch(format string, args ...any) error {
	return &EvalError{Kind: TypeMismatch, Message: fmt.Sprintf(format, args...)}
}

func NewArityMismatch(want, got int) error {
	return &EvalError{Kind: ArityMismatch, Message: fmt.Sprintf("expected %d values, got %d", want, got)}
}

func NewEmptyListAccess(op string) error {
	return &EvalError{Kind: EmptyListAccess, Message: op + " of empty list"}
}

func NewNoMatchingClause() error {
	return &EvalError{Kind: NoMatchingClause, Message: "no cond clause matched"}
}
