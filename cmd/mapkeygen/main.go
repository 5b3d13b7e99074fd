package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/mapkey/internal/cli"
	"github.com/toyz/mapkey/internal/generator"
	"github.com/toyz/mapkey/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("mapkeygen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag  = flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flags.Bool("clean", false, "Delete all "+generator.OutputFile+" files from the specified directories")
		dryRunFlag  = flags.Bool("dry-run", false, "Resolve and print map keys without writing files")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mapkeygen [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "Map key registration generator\n")
		fmt.Fprintf(stderr, "Scans Go packages for //axon::mapkey types and //axon::provides entries, checks that\n")
		fmt.Fprintf(stderr, "every key can be extracted and writes %s registering each key type.\n\n", generator.OutputFile)
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./internal/...     Scan internal directory and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./pkg/keys         Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mapkeygen ./...                                  # Scan everything recursively\n")
		fmt.Fprintf(stderr, "  mapkeygen --module github.com/myorg/myapp ./...  # Specify custom module name\n")
		fmt.Fprintf(stderr, "  mapkeygen --dry-run ./...                        # Print resolved keys only\n")
		fmt.Fprintf(stderr, "  mapkeygen --clean ./...                          # Delete generated files\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	level := utils.DiagnosticInfo
	if *quietFlag {
		level = utils.DiagnosticError
	} else if *verboseFlag {
		level = utils.DiagnosticVerbose
	}
	diagnostics := utils.NewDiagnosticSystemWithWriters(level, stdout, stderr)

	if *cleanFlag {
		removed, err := cli.NewCleaner(utils.NewFileProcessor()).CleanGeneratedFiles(dirs)
		if err != nil {
			diagnostics.ReportError(err)
			return 1
		}
		for _, file := range removed {
			diagnostics.Verbose("removed %s", file)
		}
		diagnostics.Success("Removed %d %s files", len(removed), generator.OutputFile)
		return 0
	}

	diagnostics.Debug("Target directories: %s", strings.Join(dirs, ", "))

	gen := cli.NewGenerator(diagnostics)
	err := gen.Run(cli.Config{
		Directories: dirs,
		ModuleName:  *moduleFlag,
		Verbose:     *verboseFlag,
		DryRun:      *dryRunFlag,
	})
	if err != nil {
		diagnostics.ReportError(err)
		diagnostics.Error("Generation failed")
		return 1
	}

	summary := gen.GetSummary()
	diagnostics.Summary("Summary", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Key types found":    summary.KeyTypesFound,
		"Map entries":        summary.BindingsResolved,
		"Files generated":    len(summary.GeneratedFiles),
	})
	diagnostics.GenerationComplete()
	return 0
}
