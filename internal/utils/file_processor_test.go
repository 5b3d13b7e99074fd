package utils

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func TestFileProcessor_DefaultGoFileFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"keys.go":            "package keys",
		"keys_test.go":       "package keys",
		"autogen_mapkeys.go": "package keys",
		"providers.go":       "package keys",
		"README.md":          "# README",
	})

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read test directory: %v", err)
	}

	filter := DefaultGoFileFilter()
	var goFiles []string
	for _, entry := range entries {
		if filter(filepath.Join(tmpDir, entry.Name()), entry) {
			goFiles = append(goFiles, entry.Name())
		}
	}
	sort.Strings(goFiles)

	if len(goFiles) != 2 || goFiles[0] != "keys.go" || goFiles[1] != "providers.go" {
		t.Errorf("Expected [keys.go providers.go], got %v", goFiles)
	}
}

func TestFileProcessor_ScanDirectoriesWithGoFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.go":                 "package main",
		"keys/keys.go":            "package keys",
		"keys/nested/n.go":        "package nested",
		"docs/README.md":          "# docs",
		"vendor/lib/lib.go":       "package lib",
		".hidden/h.go":            "package hidden",
		"testdata/fixture.go":     "package fixture",
		"gen/autogen_mapkeys.go":  "package gen",
		"onlytests/a_test.go":     "package onlytests",
		"_examples/sample/s.go":   "package sample",
		"providers/providers.go":  "package providers",
		"providers/extra/more.go": "package extra",
	})

	fp := NewFileProcessor()
	dirs, err := fp.ScanDirectoriesWithGoFiles([]string{tmpDir, tmpDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		rel, _ := filepath.Rel(tmpDir, dir)
		got = append(got, filepath.ToSlash(rel))
	}
	sort.Strings(got)

	want := []string{".", "keys", "keys/nested", "providers", "providers/extra"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

func TestFileProcessor_ParseDirectoryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"b.go":         "package keys\n\ntype B string\n",
		"a.go":         "package keys\n\ntype A string\n",
		"a_test.go":    "package keys_test\n",
		"autogen_x.go": "package other\n",
	})

	fp := NewFileProcessor()
	files, pkg, err := fp.ParseDirectoryFiles(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg != "keys" {
		t.Errorf("Expected package keys, got %s", pkg)
	}
	if len(files) != 2 || filepath.Base(files[0].Path) != "a.go" || filepath.Base(files[1].Path) != "b.go" {
		t.Errorf("Expected sorted [a.go b.go], got %v", files)
	}
}

func TestFileProcessor_ParseDirectoryFilesErrors(t *testing.T) {
	t.Run("mixed packages", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFiles(t, tmpDir, map[string]string{
			"a.go": "package one\n",
			"b.go": "package two\n",
		})
		if _, _, err := NewFileProcessor().ParseDirectoryFiles(tmpDir); err == nil {
			t.Error("Expected error for multiple packages")
		}
	})

	t.Run("no files", func(t *testing.T) {
		if _, _, err := NewFileProcessor().ParseDirectoryFiles(t.TempDir()); err == nil {
			t.Error("Expected error for empty directory")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFiles(t, tmpDir, map[string]string{"a.go": "package one\nfunc {\n"})
		if _, _, err := NewFileProcessor().ParseDirectoryFiles(tmpDir); err == nil {
			t.Error("Expected parse error")
		}
	})
}

func TestFileProcessor_CleanDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"autogen_mapkeys.go":            "package root",
		"keys/autogen_mapkeys.go":       "package keys",
		"keys/keys.go":                  "package keys",
		"keys/autogen_module.go":        "package keys",
		"vendor/dep/autogen_mapkeys.go": "package dep",
	})

	removed, err := NewFileProcessor().CleanDirectories([]string{tmpDir}, "autogen_mapkeys.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("Expected 2 removed files, got %v", removed)
	}

	for _, kept := range []string{"keys/keys.go", "keys/autogen_module.go", "vendor/dep/autogen_mapkeys.go"} {
		if _, err := os.Stat(filepath.Join(tmpDir, kept)); err != nil {
			t.Errorf("Expected %s to be kept: %v", kept, err)
		}
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "keys", "autogen_mapkeys.go")); !os.IsNotExist(err) {
		t.Error("Expected keys/autogen_mapkeys.go to be removed")
	}
}
