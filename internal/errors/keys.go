package errors

import (
	"fmt"

	"github.com/toyz/mapkey/pkg/mapkey"
)

// NewKeyExtractionError reports a map key type whose key cannot be extracted.
// The reason selects the suggestions; callers treat every reason alike.
func NewKeyExtractionError(typeName string, reason mapkey.Reason, detail string, loc SourceLocation) *BaseError {
	err := New(KeyExtractionErrorCode, fmt.Sprintf("map key %s: %s: %s", typeName, reason, detail)).
		WithLocation(loc).
		WithContext("type", typeName).
		WithContext("reason", reason.String())

	switch reason {
	case mapkey.ReasonNoSuchMethod:
		err.WithSuggestion(fmt.Sprintf("Add 'func (k %s) %s() T' returning the key", typeName, mapkey.ValueMethod))
		err.WithSuggestion("Or mark the type with -Unwrap=false to key by the whole value")
	case mapkey.ReasonInaccessible:
		err.WithSuggestion(fmt.Sprintf("Declare %s on a value receiver so %s values can be used as keys", mapkey.ValueMethod, typeName))
	case mapkey.ReasonBadSignature:
		err.WithSuggestion(fmt.Sprintf("%s must take no arguments and return T or (T, error)", mapkey.ValueMethod))
		err.WithSuggestion("Map key types must be comparable: slices, maps and funcs cannot be keys")
	case mapkey.ReasonNotMapKey:
		err.WithSuggestion(fmt.Sprintf("Annotate %s with //axon::mapkey", typeName))
	}
	return err
}

// NewKeyConflictError reports two provides entries that resolve to the same map key
func NewKeyConflictError(key string, loc, existing SourceLocation) *BaseError {
	return New(KeyConflictErrorCode, fmt.Sprintf("duplicate map key %s (first declared at %s)", key, existing)).
		WithLocation(loc).
		WithContext("key", key).
		WithSuggestion("Each provider contributing to a map must use a distinct key")
}

// NewValidationError reports an invalid annotation parameter
func NewValidationError(parameter, expected, actual string, loc SourceLocation) *BaseError {
	return New(ValidationErrorCode,
		fmt.Sprintf("parameter '%s' validation failed: expected %s, got %s", parameter, expected, actual)).
		WithLocation(loc).
		WithContext("parameter", parameter)
}
