package mapkey

import (
	"reflect"

	"github.com/google/uuid"
)

// StringKey keys a map entry by a string
type StringKey string

// Value returns the string key
func (k StringKey) Value() string { return string(k) }

// IntKey keys a map entry by an int
type IntKey int

// Value returns the int key
func (k IntKey) Value() int { return int(k) }

// UUIDKey keys a map entry by a UUID
type UUIDKey uuid.UUID

// Value returns the UUID key
func (k UUIDKey) Value() uuid.UUID { return uuid.UUID(k) }

// String returns the canonical UUID form
func (k UUIDKey) String() string { return uuid.UUID(k).String() }

// ParseUUIDKey parses s as a UUID key
func ParseUUIDKey(s string) (UUIDKey, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUIDKey{}, err
	}
	return UUIDKey(id), nil
}

// TypeKey keys a map entry by a Go type
type TypeKey struct {
	T reflect.Type
}

// TypeKeyOf returns the TypeKey for T
func TypeKeyOf[T any]() TypeKey {
	return TypeKey{T: reflect.TypeOf((*T)(nil)).Elem()}
}

var reflectTypeType = reflect.TypeOf((*reflect.Type)(nil)).Elem()

// UnwrapKey keys the entry by the wrapped reflect.Type
func (k TypeKey) UnwrapKey() (reflect.Type, any) {
	return reflectTypeType, k.T
}

func registerBuiltins(r *Registry) {
	r.MustRegister(reflect.TypeOf(StringKey("")), UnwrapValue)
	r.MustRegister(reflect.TypeOf(IntKey(0)), UnwrapValue)
	r.MustRegister(reflect.TypeOf(UUIDKey{}), UnwrapValue)
	r.MustRegister(reflect.TypeOf(TypeKey{}), UnwrapValue)
}
