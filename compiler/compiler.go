// Package compiler runs derive end to end: it loads annotated types from Go
// packages and generates their companion units.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/gen/compare"
	"github.com/syssam/derive/compiler/gen/stringer"
	"github.com/syssam/derive/compiler/load"
)

// CommandPath is the import path of the derive command.
const CommandPath = "github.com/syssam/derive/cmd/derive"

// Capabilities returns every registered capability.
func Capabilities() []gen.Capability {
	return []gen.Capability{compare.New(), stringer.New()}
}

// Load loads the annotated types of the packages matching patterns.
// Diagnostics found while loading, such as malformed markers, are returned
// in a sorted bag; the error is only set when the packages themselves could
// not be loaded.
func Load(ctx context.Context, cfg *gen.Config, patterns ...string) ([]*load.Type, *diag.Bag, error) {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	bag := diag.NewBag()
	l := &load.Loader{
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Reporter:   diag.BagReporter{Bag: bag},
		Logger:     cfg.Logger,
	}
	types, err := l.Load(ctx, patterns...)
	if err != nil {
		return nil, nil, err
	}
	bag.Sort()
	return types, bag, nil
}

// Generate loads the packages matching patterns and generates the units of
// every annotated type. Load diagnostics are merged into the report.
func Generate(ctx context.Context, cfg *gen.Config, patterns ...string) (*gen.Report, error) {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	g := gen.NewGenerator(cfg, Capabilities()...)
	types, loadDiags, err := Load(ctx, cfg, patterns...)
	if err != nil {
		return nil, err
	}
	report, err := g.Generate(ctx, types, nil)
	if err != nil {
		return nil, err
	}
	for _, d := range loadDiags.Items() {
		report.Diagnostics.Add(d)
	}
	report.Diagnostics.Sort()
	return report, nil
}

// Scaffold renders a generate.go file for package pkgName carrying the
// go:generate directive that runs derive over patterns.
func Scaffold(pkgName string, patterns ...string) ([]byte, error) {
	if !token.IsIdentifier(pkgName) || pkgName == "_" {
		return nil, gen.NewConfigError("Package", pkgName, "invalid package name")
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	f := jen.NewFile(pkgName)
	f.Comment(fmt.Sprintf("//go:generate go run %s generate %s", CommandPath, strings.Join(patterns, " ")))
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("derive: render scaffold: %w", err)
	}
	return buf.Bytes(), nil
}
