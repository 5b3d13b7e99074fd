package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/toyz/mapkey/internal/errors"
)

// GoModParser reads module information from go.mod files
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a go.mod parser that shares reader's cache
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
	}
}

// ParseModuleName returns the module path declared in a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", err
	}

	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return "", errors.WrapParseError("go.mod", err).WithLocation(errors.SourceLocation{File: cleanPath})
	}
	if modFile.Module == nil {
		return "", errors.New(errors.ConfigurationErrorCode, "no module declaration found in go.mod").
			WithLocation(errors.SourceLocation{File: cleanPath})
	}

	return modFile.Module.Mod.Path, nil
}

// FindGoModFile walks up from startDir to the nearest go.mod
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if content, err := p.fileReader.ReadFile(goModPath); err == nil && len(content) > 0 {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.Newf(errors.ConfigurationErrorCode, "go.mod file not found above %s", startDir).
		WithSuggestion("Run inside a Go module or pass --module")
}

// ImportPath returns the import path of dir given the module root directory
// and module path
func ImportPath(moduleRoot, modulePath, dir string) (string, error) {
	absRoot, err := filepath.Abs(moduleRoot)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", moduleRoot, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", dir, err)
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ConfigurationErrorCode, "%s is outside module root %s", dir, moduleRoot)
	}
	if rel == "." {
		return modulePath, nil
	}
	return path.Join(modulePath, filepath.ToSlash(rel)), nil
}
