package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Max truncates the output; 0 means no limit.
	Max int
	// BaseDir makes file names relative when set.
	BaseDir string
}

// Pretty writes one line per diagnostic:
//
//	<path>:<line>:<col>: <severity>: <message> (<subject>)
//
// followed by a summary line when at least one diagnostic was printed.
// The caller is expected to Sort the bag beforehand.
func Pretty(w io.Writer, items []Diagnostic, opts PrettyOpts) error {
	var (
		errc  = color.New(color.FgRed, color.Bold)
		warnc = color.New(color.FgYellow, color.Bold)
		infoc = color.New(color.FgCyan)
		posc  = color.New(color.Bold)
	)
	for _, c := range []*color.Color{errc, warnc, infoc, posc} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	shown := items
	if opts.Max > 0 && len(shown) > opts.Max {
		shown = shown[:opts.Max]
	}
	var errs, warns int
	for _, d := range items {
		switch d.Severity {
		case SevError:
			errs++
		case SevWarning:
			warns++
		}
	}
	for _, d := range shown {
		sevc := infoc
		switch d.Severity {
		case SevError:
			sevc = errc
		case SevWarning:
			sevc = warnc
		}
		pos := d.Pos
		pos.Filename = relPath(opts.BaseDir, pos.Filename)
		line := posc.Sprint(pos.String()) + ": " + sevc.Sprint(d.Severity.String()) + ": " + d.Message
		if d.Subject != "" {
			line += " (" + d.Subject + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if n := len(items) - len(shown); n > 0 {
		if _, err := fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", n); err != nil {
			return err
		}
	}
	if len(shown) > 0 {
		if _, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns); err != nil {
			return err
		}
	}
	return nil
}

type jsonDiagnostic struct {
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Subject  string   `json:"subject,omitempty"`
	Pos      Position `json:"pos"`
}

// JSON writes the diagnostics as a JSON array.
func JSON(w io.Writer, items []Diagnostic, opts PrettyOpts) error {
	out := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		pos := d.Pos
		pos.Filename = relPath(opts.BaseDir, pos.Filename)
		out = append(out, jsonDiagnostic{
			Severity: d.Severity.String(),
			Message:  d.Message,
			Subject:  d.Subject,
			Pos:      pos,
		})
		if opts.Max > 0 && len(out) == opts.Max {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func relPath(base, path string) string {
	if base == "" || path == "" || !filepath.IsAbs(path) {
		return path
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
