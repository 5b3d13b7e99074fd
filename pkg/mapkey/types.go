// Package mapkey determines the key type and key value of map key
// annotations used by multibindings
package mapkey

import (
	"fmt"
	"reflect"
	"strings"
)

// ValueMethod is the name of the accessor used to unwrap a map key
const ValueMethod = "Value"

// UnwrapMode selects how a registered map key type yields its key
type UnwrapMode int

const (
	// UnwrapValue uses the key's accessor return type and value as the map key
	UnwrapValue UnwrapMode = iota
	// UseAnnotation uses the annotation value itself as the map key
	UseAnnotation
)

// String returns the string representation of the unwrap mode
func (m UnwrapMode) String() string {
	switch m {
	case UnwrapValue:
		return "unwrap"
	case UseAnnotation:
		return "annotation"
	default:
		return "unknown"
	}
}

// ParseUnwrapMode converts a string to an UnwrapMode
func ParseUnwrapMode(s string) (UnwrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unwrap", "true":
		return UnwrapValue, nil
	case "annotation", "false":
		return UseAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown unwrap mode: %s", s)
	}
}

// ModeFor returns UnwrapValue when unwrap is true and UseAnnotation otherwise
func ModeFor(unwrap bool) UnwrapMode {
	if unwrap {
		return UnwrapValue
	}
	return UseAnnotation
}

// TypeAndValue is the type and value of a map key
type TypeAndValue struct {
	// Type is the key type the map entry is registered under
	Type reflect.Type

	// Value is the runtime key value
	Value any
}

// String renders the pair as type=value
func (tv TypeAndValue) String() string {
	if tv.Type == nil {
		return fmt.Sprintf("<nil>=%v", tv.Value)
	}
	return fmt.Sprintf("%s=%v", tv.Type, tv.Value)
}

// Unwrapper is implemented by map key types that provide their own key
// type and value. Unwrapping keys that implement it skip the accessor lookup.
type Unwrapper interface {
	UnwrapKey() (reflect.Type, any)
}
