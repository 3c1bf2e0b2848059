// Package settings holds build metadata and the per-run options shared by the
// ltable commands.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "ltable"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Input describes where a command reads its data from.
type Input struct {
	// Path is the file to read. Empty or "-" means stdin.
	Path string
}

// FromStdin reports whether the input is read from standard input.
func (i Input) FromStdin() bool {
	return i.Path == "" || i.Path == "-"
}

// Run holds the options of a single execution.
type Run struct {
	MinLogLevel int8
	Input       Input
	ConfigFile  string
	// Width is the table width chosen for this run.
	Width       int
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used when running from the command line.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		ExitOnError: true,
	}
}

// Debug reports whether debug logging was requested.
func (r *Run) Debug() bool {
	return r != nil && r.MinLogLevel < 0
}
