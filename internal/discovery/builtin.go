package discovery

import (
	"path"
	"reflect"

	"github.com/toyz/mapkey/pkg/mapkey"
)

// MapKeyImportPath is the import path of the runtime package
var MapKeyImportPath = reflect.TypeOf(mapkey.StringKey("")).PkgPath()

var unwrapperType = reflect.TypeOf((*mapkey.Unwrapper)(nil)).Elem()

// BuiltinKeyTypes describes the key types pkg/mapkey registers itself. They
// are read from the runtime registry so the static view cannot drift from it.
func BuiltinKeyTypes() []*KeyType {
	registry := mapkey.DefaultRegistry()

	var keys []*KeyType
	for _, t := range registry.Types() {
		if t.PkgPath() != MapKeyImportPath {
			continue
		}
		mode, _ := registry.Mode(t)

		kt := &KeyType{
			Name:        t.Name(),
			PackageName: path.Base(MapKeyImportPath),
			ImportPath:  MapKeyImportPath,
			Mode:        mode,
			Underlying:  t.Kind().String(),
			Comparable:  t.Comparable(),
			Builtin:     true,
		}

		if t.Implements(unwrapperType) {
			kt.Unwrapper = true
		} else if m, ok := t.MethodByName(mapkey.ValueMethod); ok {
			kt.Accessor = &Accessor{
				ResultType:       m.Type.Out(0).String(),
				ResultComparable: m.Type.Out(0).Comparable(),
				Results:          m.Type.NumOut(),
				Params:           m.Type.NumIn() - 1,
			}
		}
		keys = append(keys, kt)
	}
	return keys
}
