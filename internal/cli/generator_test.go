package cli

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/mapkey/internal/discovery"
	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/internal/generator"
	"github.com/toyz/mapkey/internal/utils"
	"github.com/toyz/mapkey/pkg/mapkey"
)

const shopKeys = `package keys

//axon::mapkey
type RegionKey struct {
	code string
}

func (k RegionKey) Value() string { return k.code }

type Handler interface{ Handle() }
`

const shopHandlers = `package handlers

import "example.com/shop/keys"

//axon::provides keys.RegionKey eu-west
func EUHandler() keys.Handler { return nil }

//axon::provides -Key=keys.RegionKey -Value=us-east
func USHandler() keys.Handler { return nil }

//axon::provides mapkey.StringKey twix
func Twix() string { return "twix" }
`

func newShop(t *testing.T, handlers string) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":               "module example.com/shop\n\ngo 1.21\n",
		"keys/keys.go":         shopKeys,
		"handlers/handlers.go": handlers,
	})
	return root
}

func newTestGenerator(level utils.DiagnosticLevel) (*Generator, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	return NewGenerator(utils.NewDiagnosticSystemWithWriters(level, &out, &errOut)), &out, &errOut
}

func TestGenerator_Run(t *testing.T) {
	root := newShop(t, shopHandlers)
	g, out, _ := newTestGenerator(utils.DiagnosticInfo)

	require.NoError(t, g.Run(Config{Directories: []string{root + "/..."}}))

	summary := g.GetSummary()
	assert.Equal(t, 2, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.KeyTypesFound)
	assert.Equal(t, 3, summary.BindingsResolved)

	generated := filepath.Join(root, "keys", generator.OutputFile)
	assert.Equal(t, []string{generated}, summary.GeneratedFiles)

	content, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mapkey.MustRegister(reflect.TypeOf((*RegionKey)(nil)).Elem(), mapkey.UnwrapValue)")

	_, err = os.Stat(filepath.Join(root, "handlers", generator.OutputFile))
	assert.True(t, os.IsNotExist(err))

	output := out.String()
	assert.Contains(t, output, "mapkeygen: Generating map key registrations")
	assert.Contains(t, output, "example.com/shop/keys: 1 key types, 0 providers")
	assert.Contains(t, output, "map[string]keys.Handler <- handlers.EUHandler")
	assert.Contains(t, output, "Resolved 3 map entries")
}

func TestGenerator_Run_KeyExtractionFailure(t *testing.T) {
	root := newShop(t, `package handlers

//axon::provides MissingKey x
func Broken() string { return "" }
`)
	g, _, _ := newTestGenerator(utils.DiagnosticInfo)

	err := g.Run(Config{Directories: []string{root + "/..."}})
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	assert.True(t, multi.HasCode(errors.KeyExtractionErrorCode))
	assert.Contains(t, err.Error(), "MissingKey is not a map key type")

	_, statErr := os.Stat(filepath.Join(root, "keys", generator.OutputFile))
	assert.True(t, os.IsNotExist(statErr), "nothing is written when a key cannot be extracted")
}

func TestGenerator_WriteRegistrations_RendersBeforeWriting(t *testing.T) {
	root := t.TempDir()
	good := &discovery.Package{
		Name:       "keys",
		Dir:        filepath.Join(root, "keys"),
		ImportPath: "example.com/shop/keys",
		KeyTypes:   []*discovery.KeyType{{Name: "RegionKey", PackageName: "keys", Mode: mapkey.UnwrapValue}},
	}
	broken := &discovery.Package{
		Name:       "zones",
		Dir:        filepath.Join(root, "zones"),
		ImportPath: "example.com/shop/zones",
		KeyTypes:   []*discovery.KeyType{{Name: "Zone Key", PackageName: "zones", Mode: mapkey.UnwrapValue}},
	}
	require.NoError(t, os.MkdirAll(good.Dir, 0755))
	require.NoError(t, os.MkdirAll(broken.Dir, 0755))

	g, _, _ := newTestGenerator(utils.DiagnosticInfo)
	module := ModuleInfo{Root: root, Path: "example.com/shop"}

	err := g.writeRegistrations(module, []*discovery.Package{good, broken}, false)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	assert.True(t, multi.HasCode(errors.GenerationErrorCode))

	_, statErr := os.Stat(filepath.Join(good.Dir, generator.OutputFile))
	assert.True(t, os.IsNotExist(statErr), "no file is written when another package fails to render")
	assert.Empty(t, g.GetSummary().GeneratedFiles)

	require.NoError(t, g.writeRegistrations(module, []*discovery.Package{good}, false))
	assert.FileExists(t, filepath.Join(good.Dir, generator.OutputFile))
}

func TestGenerator_Run_DryRun(t *testing.T) {
	root := newShop(t, shopHandlers)
	g, out, _ := newTestGenerator(utils.DiagnosticInfo)

	require.NoError(t, g.Run(Config{Directories: []string{root + "/..."}, DryRun: true}))

	assert.Empty(t, g.GetSummary().GeneratedFiles)
	assert.Contains(t, out.String(), "would write "+filepath.Join("keys", generator.OutputFile))
	_, err := os.Stat(filepath.Join(root, "keys", generator.OutputFile))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerator_Run_CustomModule(t *testing.T) {
	root := newShop(t, `package handlers

import "github.com/acme/shop/keys"

//axon::provides keys.RegionKey eu-west
func EUHandler() keys.Handler { return nil }
`)
	g, _, _ := newTestGenerator(utils.DiagnosticError)

	require.NoError(t, g.Run(Config{
		Directories: []string{root + "/..."},
		ModuleName:  "github.com/acme/shop",
	}))
	assert.Equal(t, 1, g.GetSummary().BindingsResolved)
}

func TestGenerator_Run_Errors(t *testing.T) {
	g, _, _ := newTestGenerator(utils.DiagnosticSilent)

	assert.Error(t, g.Run(Config{}))

	root := newShop(t, shopHandlers)
	err := g.Run(Config{Directories: []string{filepath.Join(root, "empty")}})
	assert.Error(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	err = g.Run(Config{Directories: []string{filepath.Join(root, "docs")}})
	assert.ErrorContains(t, err, "no Go packages found")
}
