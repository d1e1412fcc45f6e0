package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/derive"
	"github.com/syssam/derive/compiler"
	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/gen"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [patterns]",
		Short: "Generate the units of every annotated type",
		Long: `Generate loads the packages matching the patterns (default ".") and writes a
comparison unit for every type marked //derive:compare and a formatting unit
for every type marked //derive:stringer.

The command exits with status 1 when an error diagnostic was reported.`,
		RunE: runGenerate,
	}
	addGenerateFlags(cmd.Flags())
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()
	cfg, err := s.config()
	if err != nil {
		return err
	}
	report, err := compiler.Generate(cmd.Context(), cfg, s.patterns...)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, report.Diagnostics); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), report)
	return derive.NewDiagnosticsError(report.Diagnostics)
}

// printDiagnostics writes the diagnostics to the error output of cmd.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag) error {
	w := cmd.ErrOrStderr()
	f, _ := w.(*os.File)
	color, err := useColor(cmd, f)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	opts := diag.PrettyOpts{Color: color, Max: limit}
	if wd, err := os.Getwd(); err == nil {
		opts.BaseDir = wd
	}
	format := "pretty"
	if cmd.Flags().Lookup("format") != nil {
		format, _ = cmd.Flags().GetString("format")
	}
	switch format {
	case "pretty":
		return diag.Pretty(w, bag.Items(), opts)
	case "json":
		return diag.JSON(w, bag.Items(), opts)
	}
	return fmt.Errorf("invalid --format %q, want pretty or json", format)
}

func printSummary(w io.Writer, report *gen.Report) {
	counts := make(map[gen.Outcome]int)
	for _, o := range report.Outcomes {
		counts[o]++
	}
	fmt.Fprintf(w, "%d unit(s): %d written, %d unchanged, %d skipped in %s\n",
		len(report.Units), counts[gen.Written], counts[gen.Unchanged], counts[gen.Skipped],
		report.Duration.Round(time.Millisecond))
}

// generateOnce runs one generation cycle for watch.
func generateOnce(ctx context.Context, cmd *cobra.Command, s *settings, logger *zap.Logger) (*gen.Report, error) {
	cfg, err := gen.NewConfig(slices.Concat(s.options, []gen.Option{gen.WithLogger(logger)})...)
	if err != nil {
		return nil, err
	}
	report, err := compiler.Generate(ctx, cfg, s.patterns...)
	if err != nil {
		return nil, err
	}
	if err := printDiagnostics(cmd, report.Diagnostics); err != nil {
		return nil, err
	}
	printSummary(cmd.OutOrStdout(), report)
	return report, nil
}
