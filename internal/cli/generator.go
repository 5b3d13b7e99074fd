package cli

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/mapkey/internal/discovery"
	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/internal/generator"
	"github.com/toyz/mapkey/internal/utils"
)

// GenerationSummary contains summary information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	KeyTypesFound     int
	BindingsResolved  int
	GeneratedFiles    []string
	Bindings          []*discovery.Binding
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	keyScanner     *discovery.Scanner
	codeGenerator  *generator.Generator
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	processor := utils.NewFileProcessor()
	return &Generator{
		scanner:        NewDirectoryScanner(processor),
		moduleResolver: NewModuleResolver(processor.FileReader()),
		keyScanner:     discovery.NewScanner(processor, nil),
		codeGenerator:  generator.NewGenerator(),
		diagnostics:    diagnostics,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run scans the configured directories, resolves the key of every map entry
// and writes one registration file per package declaring key types. Any key
// extraction failure aborts the run before files are written.
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	if len(config.Directories) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "at least one directory is required")
	}

	startDir, _ := splitPattern(config.Directories[0])
	module, err := g.moduleResolver.ResolveModule(config.ModuleName, startDir)
	if err != nil {
		return err
	}

	g.diagnostics.Header("Generating map key registrations")
	g.diagnostics.SourcePath(module.Root)
	g.diagnostics.Verbose("Module path: %s", module.Path)

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.Newf(errors.ConfigurationErrorCode, "no Go packages found in %v", config.Directories).
			WithSuggestion("Use a trailing /... to scan subdirectories")
	}

	g.diagnostics.PhaseHeader("Scanning packages")
	errs := errors.NewMultipleErrors()
	packages := make([]*discovery.Package, 0, len(packageDirs))
	for _, dir := range packageDirs {
		importPath, err := g.moduleResolver.BuildPackagePath(module, dir)
		if err != nil {
			collectErrors(errs, err)
			continue
		}

		pkg, err := g.keyScanner.ScanPackage(dir, importPath)
		collectErrors(errs, err)
		if pkg == nil {
			continue
		}
		packages = append(packages, pkg)
		g.summary.KeyTypesFound += len(pkg.KeyTypes)
		if len(pkg.KeyTypes) > 0 || len(pkg.Bindings) > 0 {
			g.diagnostics.PhaseItem(fmt.Sprintf("%s: %d key types, %d providers",
				importPath, len(pkg.KeyTypes), len(pkg.Bindings)))
		} else {
			g.diagnostics.Verbose("%s: nothing to generate", importPath)
		}
	}
	g.summary.PackagesProcessed = len(packages)

	g.diagnostics.PhaseHeader("Resolving map keys")
	collectErrors(errs, discovery.NewResolver(packages).Resolve(packages))
	if !errs.IsEmpty() {
		return errs
	}

	g.summary.Bindings = discovery.SortedBindings(packages)
	g.summary.BindingsResolved = len(g.summary.Bindings)
	for _, b := range g.summary.Bindings {
		g.diagnostics.PhaseProgress(fmt.Sprintf("map[%s]%s <- %s.%s",
			b.Key.Type, b.ElementType, b.PackageName, b.Provider))
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("Resolved %d map entries", g.summary.BindingsResolved))

	g.diagnostics.PhaseHeader("Writing registrations")
	if err := g.writeRegistrations(module, packages, config.DryRun); err != nil {
		return err
	}

	g.summary.Duration = time.Since(startTime)
	g.diagnostics.Debug("Generation took %s", g.summary.Duration)
	return nil
}

// writeRegistrations renders the file of every package before writing any,
// so a package that fails to render leaves the tree untouched
func (g *Generator) writeRegistrations(module ModuleInfo, packages []*discovery.Package, dryRun bool) error {
	errs := errors.NewMultipleErrors()
	files := make([]*generator.GeneratedFile, 0, len(packages))
	for _, pkg := range packages {
		if !pkg.HasKeyTypes() || pkg.ImportPath == discovery.MapKeyImportPath {
			continue
		}
		file, err := g.codeGenerator.Generate(pkg)
		if err != nil {
			collectErrors(errs, err)
			continue
		}
		files = append(files, file)
	}
	if !errs.IsEmpty() {
		return errs
	}

	for _, file := range files {
		if dryRun {
			g.diagnostics.PhaseProgress(fmt.Sprintf("would write %s", g.relativePath(module, file.FilePath)))
			continue
		}
		if err := g.codeGenerator.Write(file); err != nil {
			return err
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
		g.diagnostics.PhaseItem(fmt.Sprintf("%s (%d key types)", g.relativePath(module, file.FilePath), len(file.KeyTypes)))
	}
	return nil
}

// relativePath shortens path for display
func (g *Generator) relativePath(module ModuleInfo, path string) string {
	if rel, err := filepath.Rel(module.Root, path); err == nil {
		return rel
	}
	return path
}

// collectErrors flattens err into errs
func collectErrors(errs *errors.MultipleErrors, err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			errs.Add(e)
		}
		return
	}

	var coded errors.CodedError
	if stderrors.As(err, &coded) {
		errs.Add(coded)
		return
	}
	errs.Add(errors.Wrap(errors.UnknownErrorCode, "scan failed", err))
}
