package cli

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for map key types
	// and providers. A trailing /... scans recursively.
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// DryRun resolves and reports every map entry without writing files
	DryRun bool
}
