package diag

import (
	"slices"
	"sync"
)

// Bag collects diagnostics. It is safe for concurrent use, since types are
// generated in parallel.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewBag returns an empty bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.mu.Lock()
	b.items = append(b.items, d)
	b.mu.Unlock()
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// Count returns the number of diagnostics with the given severity.
func (b *Bag) Count(sev Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether at least one error was recorded.
func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// Sort orders the diagnostics by position, then severity (errors first),
// then message, so that the output does not depend on worker scheduling.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		switch {
		case x.Pos.Before(y.Pos):
			return -1
		case y.Pos.Before(x.Pos):
			return 1
		case x.Severity != y.Severity:
			return int(y.Severity) - int(x.Severity)
		case x.Message < y.Message:
			return -1
		case x.Message > y.Message:
			return 1
		}
		return 0
	})
}

// Reset drops all diagnostics.
func (b *Bag) Reset() {
	b.mu.Lock()
	b.items = nil
	b.mu.Unlock()
}
