// Package settings provides build metadata, per-run configuration, and
// context helpers used across the picaview CLI and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "picaview"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// PayloadSettings says where the results payload is read from.
type PayloadSettings struct {
	FromStdin bool
	Path      string
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds settings for a single execution of the application.
type Run struct {
	MinLogLevel int8
	Payload     PayloadSettings
	Interactive bool
	NoColor     bool
}

// NewCliParams returns the defaults for a CLI invocation.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Payload:     PayloadSettings{},
		Interactive: false,
		NoColor:     false,
	}
}
