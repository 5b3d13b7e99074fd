package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mapkey/internal/utils"
)

func TestModuleResolver_ResolveModule(t *testing.T) {
	resolver := NewModuleResolver(utils.NewFileReader())

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod": `module github.com/example/shop

go 1.21

require github.com/google/uuid v1.6.0
`,
		"internal/keys/keys.go": "package keys",
	})

	t.Run("read from go.mod file", func(t *testing.T) {
		module, err := resolver.ResolveModule("", filepath.Join(root, "internal", "keys"))
		require.NoError(t, err)
		assert.Equal(t, "github.com/example/shop", module.Path)
		assert.Equal(t, root, module.Root)
	})

	t.Run("custom module name keeps go.mod root", func(t *testing.T) {
		module, err := resolver.ResolveModule("github.com/custom/module", filepath.Join(root, "internal"))
		require.NoError(t, err)
		assert.Equal(t, "github.com/custom/module", module.Path)
		assert.Equal(t, root, module.Root)
	})

	t.Run("custom module name without go.mod", func(t *testing.T) {
		dir := t.TempDir()
		module, err := resolver.ResolveModule("github.com/custom/module", dir)
		require.NoError(t, err)
		assert.Equal(t, dir, module.Root)
	})

	t.Run("missing go.mod", func(t *testing.T) {
		_, err := resolver.ResolveModule("", t.TempDir())
		assert.Error(t, err)
	})
}

func TestModuleResolver_BuildPackagePath(t *testing.T) {
	resolver := NewModuleResolver(utils.NewFileReader())
	module := ModuleInfo{Path: "github.com/example/shop", Root: "/src/shop"}

	tests := []struct {
		name       string
		packageDir string
		expected   string
		wantErr    bool
	}{
		{"module root", "/src/shop", "github.com/example/shop", false},
		{"nested package", "/src/shop/internal/keys", "github.com/example/shop/internal/keys", false},
		{"outside module", "/src/other", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := resolver.BuildPackagePath(module, tt.packageDir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
