package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"github.com/toyz/mapkey/internal/errors"
)

// FileReader parses Go files and reads go.mod files, caching results until
// the file changes. Every parsed file shares one token.FileSet so positions
// from different files can be resolved through FileSet.
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *Cache[string, *ast.File]
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a reader with empty caches
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewCache[string, *ast.File](),
		contentCache: NewCache[string, []byte](),
	}
}

// ParseGoFile parses a Go source file with comments
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath, err := cleanExistingPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.astCache.Get(cleanPath, cleanPath); ok {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filepath.Base(cleanPath), err).
			WithLocation(errors.SourceLocation{File: cleanPath})
	}

	_ = fr.astCache.Set(cleanPath, file, cleanPath)
	return file, nil
}

// ParseGoSource parses in-memory Go source under the given file name
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}
	return file, nil
}

// ReadFile reads a file's contents
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := cleanExistingPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.contentCache.Get(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	_ = fr.contentCache.Set(cleanPath, content, cleanPath)
	return content, nil
}

// FileSet returns the file set shared by every parsed file
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// Position converts a token position into a source location
func (fr *FileReader) Position(pos token.Pos) errors.SourceLocation {
	p := fr.fileSet.Position(pos)
	return errors.SourceLocation{File: p.Filename, Line: p.Line, Column: p.Column}
}

// ClearCache drops every cached file
func (fr *FileReader) ClearCache() {
	fr.astCache.Clear()
	fr.contentCache.Clear()
}

// CacheStats returns the number of cached ASTs and file contents
func (fr *FileReader) CacheStats() (astFiles, contentFiles int) {
	return fr.astCache.Size(), fr.contentCache.Size()
}

func cleanExistingPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); err != nil {
		return "", errors.WrapFileSystemError("stat", cleanPath, err)
	}
	return cleanPath, nil
}
