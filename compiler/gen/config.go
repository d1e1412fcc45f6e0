package gen

import (
	"path/filepath"
	"runtime"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/derive/schema/marker"
)

// DefaultHeader is put at the top of every generated file.
const DefaultHeader = "Code generated by derive. DO NOT EDIT."

// Config holds the configuration of a generation run.
type Config struct {
	// Header is the comment at the top of each generated file.
	Header string
	// Target is an optional output directory. Units are written next to
	// their type declaration when empty.
	Target string
	// Workers bounds the number of types processed in parallel.
	Workers int
	// Capabilities restricts generation to the named capabilities.
	// All capabilities run when empty.
	Capabilities []string
	Logger       *zap.Logger
	// CachePath is the file of the unit cache. No cache is used when empty.
	CachePath string
	// Dir is the directory package patterns are resolved in. The current
	// directory is used when empty.
	Dir string
	// BuildFlags are passed to the build tool when loading packages.
	BuildFlags []string
	// DryRun renders units without writing them.
	DryRun bool
	// Sink overrides the file sink.
	Sink Sink
}

// OutputConfig groups the settings that decide where units go.
type OutputConfig struct {
	Target string
	Header string
	DryRun bool
}

// Output returns the output settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{Target: c.Target, Header: c.Header, DryRun: c.DryRun}
}

// Path returns where a file of a type declared in dir is written.
func (o OutputConfig) Path(dir, file string) string {
	if o.Target != "" {
		dir = o.Target
	}
	return filepath.Join(dir, file)
}

// Enabled reports whether the named capability runs.
func (c *Config) Enabled(capability string) bool {
	return len(c.Capabilities) == 0 || slices.Contains(c.Capabilities, capability)
}

func (c *Config) defaults() {
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

func knownCapability(name string) bool {
	return slices.Contains(marker.Capabilities, name)
}
