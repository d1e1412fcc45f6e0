package gen

import (
	"errors"
	"slices"

	"go.uber.org/zap"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of types processed in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "at least one worker is required")
		}
		c.Workers = n
		return nil
	}
}

// WithCapabilities restricts generation to the named capabilities.
func WithCapabilities(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if !knownCapability(name) {
				return NewConfigError("Capabilities", name, ErrUnknownCapability.Error())
			}
			if !slices.Contains(c.Capabilities, name) {
				c.Capabilities = append(c.Capabilities, name)
			}
		}
		return nil
	}
}

// WithLogger sets the logger of the run.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithCache enables the unit cache stored at path.
func WithCache(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("CachePath", nil, "cache path cannot be empty")
		}
		c.CachePath = path
		return nil
	}
}

// WithDir sets the directory package patterns are resolved in.
func WithDir(dir string) Option {
	return func(c *Config) error {
		c.Dir = dir
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithDryRun renders units without writing them.
func WithDryRun(dryRun bool) Option {
	return func(c *Config) error {
		c.DryRun = dryRun
		return nil
	}
}

// WithSink replaces the file sink, e.g. with a MemorySink in tests.
func WithSink(s Sink) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("Sink", nil, "sink cannot be nil")
		}
		c.Sink = s
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
// Unset settings get their defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.defaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
