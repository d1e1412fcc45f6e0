// Package derive generates comparison and formatting functions for Go types
// annotated with marker comments or struct tags.
//
// A type opts in with a directive in its doc comment:
//
//	//derive:compare
//	//derive:stringer
//	type Point struct {
//		X int `compare:"include,rank=1"`
//		Y string `stringer:"include,name=why"`
//		Z float64 `compare:"-"`
//	}
//
// Members are selected by the same rules for both capabilities: non-static
// fields are included by default, methods only when marked, and conflicting
// or meaningless markers are reported as diagnostics. For every enabled type
// one file is written next to it, holding ComparePoint or FormatPoint.
//
// The derive command drives this package from go:generate; Generate is the
// programmatic equivalent.
package derive

import (
	"context"

	"github.com/syssam/derive/compiler"
	"github.com/syssam/derive/compiler/gen"
)

// Generate generates the units of every annotated type in the packages
// matching patterns. It returns the report even when error diagnostics
// were reported, together with a DiagnosticsError.
func Generate(ctx context.Context, patterns []string, opts ...gen.Option) (*gen.Report, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	report, err := compiler.Generate(ctx, cfg, patterns...)
	if err != nil {
		return nil, err
	}
	return report, NewDiagnosticsError(report.Diagnostics)
}
