package diag

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Reporter receives diagnostics from the generator phases.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// BagReporter is a Reporter that writes into a Bag.
type BagReporter struct{ Bag *Bag }

// Report implements Reporter.
func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans a diagnostic out to several reporters.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

// LogReporter writes diagnostics to a zap logger.
type LogReporter struct{ Logger *zap.Logger }

// Report implements Reporter.
func (r LogReporter) Report(d Diagnostic) {
	if r.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("pos", d.Pos.String()),
		zap.String("subject", d.Subject),
	}
	switch d.Severity {
	case SevError:
		r.Logger.Error(d.Message, fields...)
	case SevWarning:
		r.Logger.Warn(d.Message, fields...)
	default:
		r.Logger.Info(d.Message, fields...)
	}
}

// Counter wraps a reporter and remembers whether an error passed through it.
type Counter struct {
	Reporter
	errors, warnings atomic.Int64
}

// NewCounter wraps r.
func NewCounter(r Reporter) *Counter {
	return &Counter{Reporter: r}
}

// Report implements Reporter.
func (c *Counter) Report(d Diagnostic) {
	switch d.Severity {
	case SevError:
		c.errors.Add(1)
	case SevWarning:
		c.warnings.Add(1)
	}
	if c.Reporter != nil {
		c.Reporter.Report(d)
	}
}

// Errors returns the number of reported errors.
func (c *Counter) Errors() int { return int(c.errors.Load()) }

// Warnings returns the number of reported warnings.
func (c *Counter) Warnings() int { return int(c.warnings.Load()) }
