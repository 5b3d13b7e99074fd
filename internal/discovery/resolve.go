package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/pkg/mapkey"
)

// Resolver computes the map key each binding contributes under, the same
// (key type, key value) pair the runtime extractor yields for the annotation
type Resolver struct {
	byPath map[string]map[string]*KeyType
	byName map[string][]string
}

// NewResolver indexes the key types of packages together with the builtin keys
func NewResolver(packages []*Package) *Resolver {
	r := &Resolver{
		byPath: make(map[string]map[string]*KeyType),
		byName: make(map[string][]string),
	}

	for _, kt := range BuiltinKeyTypes() {
		r.add(kt)
	}
	for _, pkg := range packages {
		for _, kt := range pkg.KeyTypes {
			r.add(kt)
		}
	}
	return r
}

func (r *Resolver) add(kt *KeyType) {
	keys, exists := r.byPath[kt.ImportPath]
	if !exists {
		keys = make(map[string]*KeyType)
		r.byPath[kt.ImportPath] = keys
		r.byName[kt.PackageName] = append(r.byName[kt.PackageName], kt.ImportPath)
	}
	keys[kt.Name] = kt
}

// Lookup finds the key type a binding names. Unqualified names refer to the
// binding's package; qualified names go through the file's imports first and
// then the package names of everything indexed.
func (r *Resolver) Lookup(b *Binding) (*KeyType, bool) {
	qualifier, name, qualified := strings.Cut(b.KeyName, ".")
	if !qualified {
		kt, ok := r.byPath[b.ImportPath][b.KeyName]
		return kt, ok
	}

	if importPath, ok := b.imports[qualifier]; ok {
		if kt, ok := r.byPath[importPath][name]; ok {
			return kt, true
		}
	}
	for _, importPath := range r.byName[qualifier] {
		if kt, ok := r.byPath[importPath][name]; ok {
			return kt, true
		}
	}
	return nil, false
}

// Resolve fills in KeyType and Key for every binding and reports unknown key
// types, bad literals and duplicate keys within one map
func (r *Resolver) Resolve(packages []*Package) error {
	errs := errors.NewMultipleErrors()
	seen := make(map[string]*Binding)

	for _, pkg := range packages {
		for _, b := range pkg.Bindings {
			kt, ok := r.Lookup(b)
			if !ok {
				errs.Add(errors.NewKeyExtractionError(b.KeyName, mapkey.ReasonNotMapKey,
					fmt.Sprintf("%s is not a map key type", b.KeyName), b.Location))
				continue
			}
			if CheckKeyType(kt) != nil {
				// already reported where the key type is declared
				continue
			}

			key, err := resolveKey(kt, b)
			if err != nil {
				errs.Add(err)
				continue
			}
			b.KeyType = kt
			b.Key = key

			id := b.ElementType + "|" + key.String()
			if previous, exists := seen[id]; exists {
				errs.Add(errors.NewKeyConflictError(
					fmt.Sprintf("%s in map[%s]%s", key.Value, key.Type, b.ElementType),
					b.Location, previous.Location))
				continue
			}
			seen[id] = b
		}
	}

	return errs.ErrorOrNil()
}

func resolveKey(kt *KeyType, b *Binding) (ResolvedKey, *errors.BaseError) {
	if kt.Mode == mapkey.UseAnnotation {
		return resolveAnnotationKey(kt, b)
	}

	if kt.Unwrapper {
		return ResolvedKey{}, errors.Newf(errors.ValidationErrorCode,
			"%s computes its key in %s and cannot be given as a literal", kt.QualifiedName(), unwrapKeyMethod).
			WithLocation(b.Location).
			WithSuggestion("Register this provider in code with the key value")
	}
	if !b.HasLiteral {
		return ResolvedKey{}, errors.Newf(errors.ValidationErrorCode,
			"map key %s requires a -Value", kt.QualifiedName()).
			WithLocation(b.Location).
			WithSuggestion(fmt.Sprintf("//axon::provides -Key=%s -Value=<%s>", b.KeyName, kt.Accessor.ResultType))
	}

	value, err := ConvertLiteral(kt.Accessor.ResultType, b.Literal, kt.PackageName)
	if err != nil {
		return ResolvedKey{}, errors.NewValidationError("Value", kt.Accessor.ResultType, b.Literal, b.Location).
			WithCause(err)
	}
	return ResolvedKey{Type: kt.Accessor.ResultType, Value: value}, nil
}

// resolveAnnotationKey keys by the whole annotation value: K{} for structs,
// K(literal) otherwise
func resolveAnnotationKey(kt *KeyType, b *Binding) (ResolvedKey, *errors.BaseError) {
	key := ResolvedKey{Type: kt.QualifiedName()}

	if strings.HasPrefix(kt.Underlying, "struct{") {
		if b.HasLiteral {
			return ResolvedKey{}, errors.Newf(errors.ValidationErrorCode,
				"map key %s is keyed by the whole annotation and takes no -Value", kt.QualifiedName()).
				WithLocation(b.Location)
		}
		key.Value = kt.QualifiedName() + "{}"
		return key, nil
	}

	if !b.HasLiteral {
		return ResolvedKey{}, errors.Newf(errors.ValidationErrorCode,
			"map key %s requires a -Value", kt.QualifiedName()).WithLocation(b.Location)
	}
	value, err := ConvertLiteral(kt.Underlying, b.Literal, kt.PackageName)
	if err != nil {
		return ResolvedKey{}, errors.NewValidationError("Value", kt.Underlying, b.Literal, b.Location).
			WithCause(err)
	}
	key.Value = fmt.Sprintf("%s(%s)", kt.QualifiedName(), value)
	return key, nil
}

// SortedBindings returns every resolved binding ordered by element type, key
// type and key value
func SortedBindings(packages []*Package) []*Binding {
	var bindings []*Binding
	for _, pkg := range packages {
		for _, b := range pkg.Bindings {
			if b.KeyType != nil {
				bindings = append(bindings, b)
			}
		}
	}
	sort.SliceStable(bindings, func(i, j int) bool {
		a, b := bindings[i], bindings[j]
		if a.ElementType != b.ElementType {
			return a.ElementType < b.ElementType
		}
		if a.Key.Type != b.Key.Type {
			return a.Key.Type < b.Key.Type
		}
		return a.Key.Value < b.Key.Value
	})
	return bindings
}
