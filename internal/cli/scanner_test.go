package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mapkey/internal/utils"
)

func TestDirectoryScanner_ScanDirectories(t *testing.T) {
	// root/
	//   keys/keys.go
	//   handlers/handlers.go
	//   handlers/eu/eu.go
	//   vendor/dep.go (skipped)
	//   docs/ (no Go files)
	//   gen/autogen_mapkeys.go (generated only)
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keys/keys.go":              "package keys",
		"handlers/handlers.go":      "package handlers",
		"handlers/eu/eu.go":         "package eu",
		"vendor/dep.go":             "package dep",
		"docs/README.md":            "docs",
		"gen/autogen_mapkeys.go":    "package gen",
		"handlers/handlers_test.go": "package handlers",
	})

	scanner := NewDirectoryScanner(utils.NewFileProcessor())

	t.Run("recursive pattern", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{root + "/..."})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{
			filepath.Join(root, "keys"),
			filepath.Join(root, "handlers"),
			filepath.Join(root, "handlers", "eu"),
		}, dirs)
	})

	t.Run("plain directory is not recursive", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{filepath.Join(root, "handlers")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "handlers")}, dirs)
	})

	t.Run("directory without Go files", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{filepath.Join(root, "docs"), filepath.Join(root, "gen")})
		require.NoError(t, err)
		assert.Empty(t, dirs)
	})

	t.Run("overlapping patterns are deduplicated", func(t *testing.T) {
		dirs, err := scanner.ScanDirectories([]string{
			filepath.Join(root, "keys"),
			root + "/...",
		})
		require.NoError(t, err)
		assert.Len(t, dirs, 3)
		assert.Equal(t, filepath.Join(root, "keys"), dirs[0])
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := scanner.ScanDirectories([]string{filepath.Join(root, "missing")})
		assert.Error(t, err)
	})
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		dir       string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"/...", ".", true},
		{"./internal/...", "./internal", true},
		{"./internal", "./internal", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			dir, recursive := splitPattern(tt.pattern)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}
