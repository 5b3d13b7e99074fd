package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/internal/utils"
)

const recursiveSuffix = "/..."

// DirectoryScanner finds the package directories named by CLI arguments
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(fileProcessor *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: fileProcessor,
	}
}

// ScanDirectories returns the directories holding Go files. Patterns ending
// in "/..." are scanned recursively; plain directories are taken as-is when
// they contain Go files.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	add := func(dirs ...string) {
		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	for _, pattern := range patterns {
		baseDir, recursive := splitPattern(pattern)
		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", baseDir), err)
		}

		if recursive {
			dirs, err := s.fileProcessor.ScanDirectoriesWithGoFiles([]string{cleanPath})
			if err != nil {
				return nil, err
			}
			add(dirs...)
			continue
		}

		ok, err := s.fileProcessor.HasGoFiles(cleanPath)
		if err != nil {
			return nil, err
		}
		if ok {
			add(cleanPath)
		}
	}

	return packageDirs, nil
}

// splitPattern strips the recursive suffix from a directory argument
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, recursiveSuffix) {
		baseDir := strings.TrimSuffix(pattern, recursiveSuffix)
		if baseDir == "" {
			baseDir = "."
		}
		return baseDir, true
	}
	return pattern, false
}
