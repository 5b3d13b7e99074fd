package cli

import (
	"path/filepath"

	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/internal/utils"
)

// ModuleInfo is the module that package import paths are built from
type ModuleInfo struct {
	Path string
	Root string
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a module resolver reading go.mod through reader
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{
		goMod: utils.NewGoModParser(reader),
	}
}

// ResolveModule finds the module enclosing startDir. A custom module path
// replaces the declared one; without a go.mod it is rooted at startDir.
func (r *ModuleResolver) ResolveModule(customModule, startDir string) (ModuleInfo, error) {
	goModPath, findErr := r.goMod.FindGoModFile(startDir)

	if customModule != "" {
		root := filepath.Dir(goModPath)
		if findErr != nil {
			abs, err := filepath.Abs(startDir)
			if err != nil {
				return ModuleInfo{}, errors.WrapFileSystemError("resolve", startDir, err)
			}
			root = abs
		}
		return ModuleInfo{Path: customModule, Root: root}, nil
	}

	if findErr != nil {
		return ModuleInfo{}, findErr
	}

	modulePath, err := r.goMod.ParseModuleName(goModPath)
	if err != nil {
		return ModuleInfo{}, err
	}
	return ModuleInfo{Path: modulePath, Root: filepath.Dir(goModPath)}, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(module ModuleInfo, packageDir string) (string, error) {
	return utils.ImportPath(module.Root, module.Path, packageDir)
}
