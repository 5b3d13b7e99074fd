package mapkey

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrKeyExtraction matches every *ExtractionError via errors.Is
var ErrKeyExtraction = errors.New("map key extraction failed")

// Reason records why a key could not be extracted. It is informational only:
// every reason is the same fatal configuration error to callers.
type Reason int

const (
	ReasonNotMapKey Reason = iota
	ReasonNoSuchMethod
	ReasonInaccessible
	ReasonBadSignature
	ReasonInvocationFailed
)

// String returns the string representation of the reason
func (r Reason) String() string {
	switch r {
	case ReasonNotMapKey:
		return "not a map key"
	case ReasonNoSuchMethod:
		return "no such method"
	case ReasonInaccessible:
		return "inaccessible method"
	case ReasonBadSignature:
		return "bad accessor signature"
	case ReasonInvocationFailed:
		return "invocation failed"
	default:
		return "unknown"
	}
}

// ExtractionError reports that the key type and value of a map key
// annotation cannot be determined
type ExtractionError struct {
	Type   reflect.Type // annotation type, nil for a nil annotation
	Reason Reason
	Cause  error
}

func (e *ExtractionError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("mapkey: cannot extract key from %s: %s: %v", name, e.Reason, e.Cause)
	}
	return fmt.Sprintf("mapkey: cannot extract key from %s: %s", name, e.Reason)
}

// Unwrap returns the underlying cause
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrKeyExtraction
func (e *ExtractionError) Is(target error) bool {
	return target == ErrKeyExtraction
}

func newExtractionError(t reflect.Type, reason Reason, cause error) *ExtractionError {
	return &ExtractionError{Type: t, Reason: reason, Cause: cause}
}
