package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/derive"
	"github.com/syssam/derive/compiler"
	"github.com/syssam/derive/compiler/load"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [patterns]",
		Short: "Print the annotated types as JSON",
		Long: `Dump loads the packages matching the patterns and prints the annotated types,
their members and markers as JSON, the model the generators consume.
Diagnostics found while loading are printed to the error output.`,
		RunE: runDump,
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()
	cfg, err := s.config()
	if err != nil {
		return err
	}
	types, bag, err := compiler.Load(cmd.Context(), cfg, s.patterns...)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, bag); err != nil {
		return err
	}
	b, err := load.MarshalTypes(types)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := cmd.OutOrStdout().Write(b); err != nil {
		return err
	}
	return derive.NewDiagnosticsError(bag)
}
