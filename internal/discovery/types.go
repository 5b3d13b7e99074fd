// Package discovery finds map key types and the providers keyed by them in Go
// source, and checks statically what pkg/mapkey would check at runtime.
package discovery

import (
	"go/ast"

	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/pkg/mapkey"
)

// KeyType is a type declaration marked with //axon::mapkey
type KeyType struct {
	Name        string
	PackageName string
	ImportPath  string
	Mode        mapkey.UnwrapMode

	// Underlying is the declared type expression, e.g. string or struct{...}
	Underlying string

	// Comparable is false when the declaration is a slice, map or func, or a
	// struct with such a field, following named types of the same package
	Comparable bool

	// Accessor is the Value method, nil when the type has none
	Accessor *Accessor

	// Pointer is set for unwrap keys whose Value has a pointer receiver. The
	// key type is then registered as *Name.
	Pointer bool

	// Unwrapper is set when the type declares UnwrapKey; its key is computed
	// in code and has no literal form
	Unwrapper bool

	// HasValueField is set for structs with a field named Value
	HasValueField bool

	Builtin  bool
	Location errors.SourceLocation

	typeExpr ast.Expr
}

// QualifiedName returns pkg.Name
func (k *KeyType) QualifiedName() string {
	return k.PackageName + "." + k.Name
}

// RegisteredName is the type registered with the runtime, Name or *Name
func (k *KeyType) RegisteredName() string {
	if k.Pointer {
		return "*" + k.Name
	}
	return k.Name
}

// Accessor describes a declared Value method
type Accessor struct {
	// ResultType is the first result, qualified with the declaring package
	// when it names a package-local type
	ResultType       string
	ResultComparable bool
	Results          int

	// SecondResult is the type of the second result when there are two
	SecondResult    string
	Params          int
	PointerReceiver bool
	Location        errors.SourceLocation

	resultExpr ast.Expr
}

// Binding is a provider function marked with //axon::provides
type Binding struct {
	Provider    string
	PackageName string
	ImportPath  string

	// ElementType is the provider's first result, the map's value type
	ElementType string

	// KeyName is the key type as written in the annotation
	KeyName    string
	Literal    string
	HasLiteral bool

	// Key is filled in by Resolve
	KeyType *KeyType
	Key     ResolvedKey

	Location errors.SourceLocation
	imports  map[string]string
}

// ResolvedKey is the (key type, key value) pair a binding contributes under
type ResolvedKey struct {
	Type  string
	Value string
}

// String renders the key as type=value
func (k ResolvedKey) String() string {
	return k.Type + "=" + k.Value
}

// Package holds what was found in one package directory
type Package struct {
	Name       string
	Dir        string
	ImportPath string
	KeyTypes   []*KeyType
	Bindings   []*Binding
}

// HasKeyTypes reports whether the package declares map key types
func (p *Package) HasKeyTypes() bool {
	return len(p.KeyTypes) > 0
}
