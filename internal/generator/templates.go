package generator

import (
	"text/template"

	"github.com/toyz/mapkey/pkg/mapkey"
)

const registrationTemplate = `// Code generated by mapkeygen. DO NOT EDIT.

package {{.PackageName}}

import (
	"reflect"

	"{{.MapKeyImport}}"
)
{{- if .Bindings}}

// Map entries keyed in this package:
{{- range .Bindings}}
//	{{.Provider}}: {{.ElementType}} at {{.Key}}
{{- end}}
{{- end}}

func init() {
{{- range .KeyTypes}}
	mapkey.MustRegister(reflect.TypeOf((*{{.Name}})(nil)){{if not .Pointer}}.Elem(){{end}}, mapkey.{{modeConst .Mode}})
{{- end}}
}
`

var templateFuncs = template.FuncMap{
	"modeConst": modeConst,
}

// modeConst names the exported constant for m
func modeConst(m mapkey.UnwrapMode) string {
	if m == mapkey.UseAnnotation {
		return "UseAnnotation"
	}
	return "UnwrapValue"
}

type templateData struct {
	PackageName  string
	MapKeyImport string
	KeyTypes     []keyTypeData
	Bindings     []bindingData
}

type keyTypeData struct {
	Name    string
	Mode    mapkey.UnwrapMode
	Pointer bool
}

type bindingData struct {
	Provider    string
	ElementType string
	Key         string
}
