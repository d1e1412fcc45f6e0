package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for advisory diagnostics that do not change the output.
	SevWarning
	// SevError is for usage and I/O errors.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Position is a source location.
type Position struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// IsValid reports whether the position carries a file name.
func (p Position) IsValid() bool { return p.Filename != "" }

func (p Position) String() string {
	switch {
	case !p.IsValid():
		return "-"
	case p.Line == 0:
		return p.Filename
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.Filename, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Before reports whether p sorts before q.
func (p Position) Before(q Position) bool {
	if p.Filename != q.Filename {
		return p.Filename < q.Filename
	}
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Diagnostic is a single finding of the generator.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Subject names the originating type or member, e.g. "shop.User" or
	// "shop.User.Email".
	Subject string
	Pos     Position
}

// New creates a diagnostic.
func New(sev Severity, pos Position, subject, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Pos: pos, Subject: subject, Message: msg}
}

// Errorf creates an error diagnostic with a formatted message.
func Errorf(pos Position, subject, format string, args ...any) Diagnostic {
	return New(SevError, pos, subject, fmt.Sprintf(format, args...))
}

// Warningf creates a warning diagnostic with a formatted message.
func Warningf(pos Position, subject, format string, args ...any) Diagnostic {
	return New(SevWarning, pos, subject, fmt.Sprintf(format, args...))
}

// String renders the diagnostic on a single line without colours.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Pos.String())
	b.WriteString(": ")
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Subject != "" {
		b.WriteString(" (")
		b.WriteString(d.Subject)
		b.WriteString(")")
	}
	return b.String()
}
