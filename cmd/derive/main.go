// derive generates comparison and formatting functions for annotated Go
// types.
//
//	derive generate ./...
//	derive watch ./models
//	derive init ./models
//	derive dump ./models
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/syssam/derive"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "derive",
		Short:         "Generate comparison and formatting functions for annotated Go types",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newWatchCmd(), newInitCmd(), newDumpCmd())

	flags := root.PersistentFlags()
	flags.String("config", "", "configuration file (.derive.yaml or derive.toml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show, 0 for all")
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		// Diagnostics were already printed.
		if !errors.Is(err, derive.ErrDiagnostics) {
			fmt.Fprintln(os.Stderr, "derive:", err)
		}
		os.Exit(1)
	}
}

// useColor resolves the --color flag for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return f != nil && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color %q, want auto, on or off", mode)
}
