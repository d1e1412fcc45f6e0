package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/syssam/derive/compiler/gen"
)

// configNames are looked up in the working directory, in order, when no
// --config flag is given.
var configNames = []string{".derive.yaml", ".derive.yml", "derive.toml"}

// fileConfig is the content of a configuration file.
type fileConfig struct {
	Patterns     []string `yaml:"patterns,omitempty" toml:"patterns,omitempty"`
	Target       string   `yaml:"target,omitempty" toml:"target,omitempty"`
	Header       string   `yaml:"header,omitempty" toml:"header,omitempty"`
	Workers      int      `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Capabilities []string `yaml:"capabilities,omitempty" toml:"capabilities,omitempty"`
	Cache        string   `yaml:"cache,omitempty" toml:"cache,omitempty"`
	BuildFlags   []string `yaml:"build_flags,omitempty" toml:"build_flags,omitempty"`
}

// readConfig reads the configuration file at path, or the first of
// configNames found in dir when path is empty. A missing default file yields
// an empty configuration.
func readConfig(dir, path string) (*fileConfig, string, error) {
	if path == "" {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return &fileConfig{}, "", nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	fc := &fileConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
			return nil, "", fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), fc)
		if err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, "", fmt.Errorf("parse %s: unknown keys %v", path, undecoded)
		}
	default:
		return nil, "", fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	return fc, path, nil
}

// marshalYAML renders a configuration file.
func (fc *fileConfig) marshalYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addGenerateFlags registers the flags shared by generate and watch.
func addGenerateFlags(fs *pflag.FlagSet) {
	fs.String("target", "", "write units into this directory instead of next to their types")
	fs.String("header", "", "header comment of generated files")
	fs.Int("workers", 0, "types processed in parallel (default GOMAXPROCS)")
	fs.StringSlice("capabilities", nil, "capabilities to run (compare, stringer)")
	fs.String("cache", "", "unit cache file; unchanged units are not rewritten")
	fs.StringSlice("build-flags", nil, "flags passed to the build tool when loading packages")
	fs.Bool("dry-run", false, "render units without writing them")
}

// settings merges the configuration file with the flags of cmd. Flags that
// were set override file values.
type settings struct {
	file     *fileConfig
	path     string
	patterns []string
	options  []gen.Option
	logger   *zap.Logger
}

func loadSettings(cmd *cobra.Command, args []string) (*settings, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	fc, path, err := readConfig(wd, configPath)
	if err != nil {
		return nil, err
	}
	s := &settings{file: fc, path: path, logger: logger, patterns: args}
	if len(s.patterns) == 0 {
		s.patterns = fc.Patterns
	}
	if path != "" {
		logger.Debug("configuration loaded", zap.String("path", path))
	}

	fs := cmd.Flags()
	str := func(name, fromFile string) string {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, _ := fs.GetString(name)
			return v
		}
		return fromFile
	}
	list := func(name string, fromFile []string) []string {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, _ := fs.GetStringSlice(name)
			return v
		}
		return fromFile
	}

	s.options = append(s.options, gen.WithLogger(logger))
	if v := str("target", fc.Target); v != "" {
		s.options = append(s.options, gen.WithTarget(v))
	}
	if v := str("header", fc.Header); v != "" {
		s.options = append(s.options, gen.WithHeader(v))
	}
	workers := fc.Workers
	if fs.Lookup("workers") != nil && fs.Changed("workers") {
		workers, _ = fs.GetInt("workers")
	}
	if workers != 0 {
		s.options = append(s.options, gen.WithWorkers(workers))
	}
	if v := list("capabilities", fc.Capabilities); len(v) > 0 {
		s.options = append(s.options, gen.WithCapabilities(v...))
	}
	if v := str("cache", fc.Cache); v != "" {
		s.options = append(s.options, gen.WithCache(v))
	}
	if v := list("build-flags", fc.BuildFlags); len(v) > 0 {
		s.options = append(s.options, gen.WithBuildFlags(slices.Clone(v)...))
	}
	if fs.Lookup("dry-run") != nil {
		dryRun, _ := fs.GetBool("dry-run")
		s.options = append(s.options, gen.WithDryRun(dryRun))
	}
	return s, nil
}

// config builds the generation config.
func (s *settings) config() (*gen.Config, error) {
	return gen.NewConfig(s.options...)
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
