package main

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/syssam/derive/compiler"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Set up a package for derive",
		Long: `Init writes generate.go, carrying the go:generate directive that runs derive,
into dir (default "."), and a .derive.yaml configuration file when none
exists. The package name is taken from the Go files of dir, or from its base
name when it has none.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().String("package", "", "package name of generate.go")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	pkgName, err := cmd.Flags().GetString("package")
	if err != nil {
		return err
	}
	if pkgName == "" {
		if pkgName, err = packageName(dir); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	path := filepath.Join(dir, "generate.go")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	src, err := compiler.Scaffold(pkgName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(out, "created", path)

	configPath := filepath.Join(dir, configNames[0])
	for _, name := range configNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return nil
		}
	}
	cfg := &fileConfig{Patterns: []string{"."}, Capabilities: []string{"compare", "stringer"}}
	data, err := cfg.marshalYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(out, "created", configPath)
	return nil
}

// packageName returns the package of the non-test Go files of dir, or a
// name derived from the directory when it has none.
func packageName(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			return "", err
		}
		return f.Name.Name, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, filepath.Base(abs))
	if name == "" || !token.IsIdentifier(name) {
		return "", errors.New("cannot derive a package name from the directory, use --package")
	}
	return name, nil
}
