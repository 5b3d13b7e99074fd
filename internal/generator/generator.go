// Package generator writes the init-time registration of map key types
package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/toyz/mapkey/internal/discovery"
	"github.com/toyz/mapkey/internal/errors"
)

// OutputFile is the name of the generated file in each package
const OutputFile = "autogen_mapkeys.go"

// GeneratedFile is the rendered registration code for one package
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     []byte
	KeyTypes    []string
}

// Generator renders registration files
type Generator struct {
	tmpl *template.Template
}

// NewGenerator creates a generator
func NewGenerator() *Generator {
	return &Generator{
		tmpl: template.Must(template.New("mapkeys").Funcs(templateFuncs).Parse(registrationTemplate)),
	}
}

// Generate renders the registration file for pkg. Each key type is
// registered with the mode chosen by its annotation, so the runtime never has
// to discover how a key yields its value.
func (g *Generator) Generate(pkg *discovery.Package) (*GeneratedFile, error) {
	if pkg == nil || !pkg.HasKeyTypes() {
		return nil, errors.New(errors.GenerationErrorCode, "package has no map key types")
	}
	if pkg.ImportPath == discovery.MapKeyImportPath {
		return nil, errors.Newf(errors.GenerationErrorCode,
			"cannot generate registrations inside %s; its key types register themselves", pkg.ImportPath)
	}

	data := templateData{
		PackageName:  pkg.Name,
		MapKeyImport: discovery.MapKeyImportPath,
	}
	names := make([]string, 0, len(pkg.KeyTypes))
	for _, kt := range pkg.KeyTypes {
		data.KeyTypes = append(data.KeyTypes, keyTypeData{Name: kt.Name, Mode: kt.Mode, Pointer: kt.Pointer})
		names = append(names, kt.Name)
	}
	for _, b := range pkg.Bindings {
		if b.KeyType == nil {
			continue
		}
		data.Bindings = append(data.Bindings, bindingData{
			Provider:    b.Provider,
			ElementType: b.ElementType,
			Key:         b.Key.String(),
		})
	}

	filePath := filepath.Join(pkg.Dir, OutputFile)

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, errors.WrapGenerateError(filePath, err)
	}

	content, err := imports.Process(filePath, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.WrapGenerateError(filePath, err)
	}

	return &GeneratedFile{
		PackageName: pkg.Name,
		FilePath:    filePath,
		Content:     content,
		KeyTypes:    names,
	}, nil
}

// Write saves a generated file
func (g *Generator) Write(file *GeneratedFile) error {
	if err := os.WriteFile(file.FilePath, file.Content, 0644); err != nil {
		return errors.WrapFileSystemError("write", file.FilePath, err)
	}
	return nil
}
