package utils

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/mapkey/internal/errors"
)

// GeneratedFilePrefix marks files written by the generator. They are never
// scanned as input.
const GeneratedFilePrefix = "autogen_"

// FileProcessor finds package directories and parses the Go files in them
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a processor with its own FileReader
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader())
}

// NewFileProcessorWithReader creates a processor sharing an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter decides whether a directory entry is processed
type FileFilter func(path string, entry os.DirEntry) bool

// DefaultGoFileFilter accepts .go files that are neither tests nor generated
func DefaultGoFileFilter() FileFilter {
	return func(path string, entry os.DirEntry) bool {
		if entry.IsDir() {
			return false
		}

		name := entry.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, GeneratedFilePrefix)
	}
}

// DefaultDirectoryFilter skips hidden, vendored and build output directories
func DefaultDirectoryFilter() FileFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, entry os.DirEntry) bool {
		if !entry.IsDir() {
			return true
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// ScanDirectoriesWithGoFiles returns every directory under rootDirs that holds
// at least one Go file, in the order they are found
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", dir, err)
	}
	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	var packageDirs []string
	if hasGoFiles(dir, entries) {
		packageDirs = append(packageDirs, dir)
	}

	directoryFilter := DefaultDirectoryFilter()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles reports whether dir contains any non-test, non-generated Go file
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.WrapFileSystemError("read directory", dir, err)
	}
	return hasGoFiles(dir, entries), nil
}

func hasGoFiles(dir string, entries []os.DirEntry) bool {
	fileFilter := DefaultGoFileFilter()
	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true
		}
	}
	return false
}

// ParsedFile is a parsed Go file and its path
type ParsedFile struct {
	Path string
	AST  *ast.File
}

// ParseDirectoryFiles parses the Go files of one package directory. Files
// are returned sorted by path.
func (fp *FileProcessor) ParseDirectoryFiles(dirPath string) ([]ParsedFile, string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, "", errors.WrapFileSystemError("read directory", dirPath, err)
	}

	var files []ParsedFile
	var packageName string
	fileFilter := DefaultGoFileFilter()

	for _, entry := range entries {
		filePath := filepath.Join(dirPath, entry.Name())
		if !fileFilter(filePath, entry) {
			continue
		}

		file, err := fp.fileReader.ParseGoFile(filePath)
		if err != nil {
			return nil, "", err
		}

		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, "", errors.Newf(errors.SyntaxErrorCode,
				"multiple packages found in directory %s: %s and %s", dirPath, packageName, file.Name.Name)
		}

		files = append(files, ParsedFile{Path: filePath, AST: file})
	}

	if len(files) == 0 {
		return nil, "", fmt.Errorf("no Go files found in directory %s", dirPath)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, packageName, nil
}

// CleanDirectories removes fileName from every directory under baseDirs and
// returns the removed paths
func (fp *FileProcessor) CleanDirectories(baseDirs []string, fileName string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}

		err := filepath.WalkDir(baseDir, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !entry.IsDir() {
				return nil
			}
			if path != baseDir && !DefaultDirectoryFilter()(path, entry) {
				return filepath.SkipDir
			}

			target := filepath.Join(path, fileName)
			if _, err := os.Stat(target); err != nil {
				return nil
			}
			if err := os.Remove(target); err != nil {
				return errors.WrapFileSystemError("remove", target, err)
			}
			removedFiles = append(removedFiles, target)
			return nil
		})
		if err != nil {
			return removedFiles, err
		}
	}

	return removedFiles, nil
}

// FileReader returns the underlying reader
func (fp *FileProcessor) FileReader() *FileReader {
	return fp.fileReader
}
