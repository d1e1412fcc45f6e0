package derive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/derive/compiler/diag"
)

// ErrDiagnostics is matched by every DiagnosticsError.
var ErrDiagnostics = errors.New("derive: errors reported")

// DiagnosticsError carries the error diagnostics of a run.
type DiagnosticsError struct {
	Items []diag.Diagnostic
}

// Error returns the error string.
func (e *DiagnosticsError) Error() string {
	switch len(e.Items) {
	case 0:
		return "derive: no errors"
	case 1:
		return "derive: " + e.Items[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "derive: %d errors:", len(e.Items))
	for i, d := range e.Items {
		fmt.Fprintf(&sb, "\n  [%d] %s", i+1, d)
	}
	return sb.String()
}

// Is reports whether the target error matches ErrDiagnostics.
func (e *DiagnosticsError) Is(err error) bool {
	return err == ErrDiagnostics
}

// NewDiagnosticsError returns a DiagnosticsError holding the error
// diagnostics of bag, or nil if it has none.
func NewDiagnosticsError(bag *diag.Bag) error {
	if bag == nil {
		return nil
	}
	var items []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			items = append(items, d)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return &DiagnosticsError{Items: items}
}

// IsDiagnosticsError returns true if the error is a DiagnosticsError.
func IsDiagnosticsError(err error) bool {
	if err == nil {
		return false
	}
	var e *DiagnosticsError
	return errors.As(err, &e)
}
