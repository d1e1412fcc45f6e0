// Package diag holds the diagnostics produced while selecting members and
// emitting code.
//
// Usage errors (contradictory markers, markers on elements that cannot carry
// them) and I/O failures are errors; advisory findings such as needless
// markers or unimplemented options are warnings. Generation phases never
// fail on a diagnostic: they report it through a Reporter and continue with
// the next type, so a single run surfaces every problem at once.
package diag
