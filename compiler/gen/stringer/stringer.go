// Package stringer generates formatting functions.
//
// For a type T marked with //derive:stringer the generated unit declares
//
//	func FormatT(object *T) string
//
// returning "T(a=1, b=2)", or "T(1, 2)" with includeFieldNames=false.
package stringer

import (
	"strconv"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/emit"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/schema/marker"
)

// Capability implements gen.Capability for formatting.
type Capability struct{}

// New returns the stringer capability.
func New() *Capability { return &Capability{} }

var _ gen.Capability = (*Capability)(nil)

func (*Capability) Name() string       { return marker.Stringer }
func (*Capability) Title() string      { return "Stringer" }
func (*Capability) Suffix() string     { return "_Stringer" }
func (*Capability) FileSuffix() string { return "stringer" }

// Enabled implements gen.Capability.
func (*Capability) Enabled(t *gen.Type) bool {
	return t.Markers.Stringer != nil
}

// FuncName returns the name of the generated formatting function.
func FuncName(t *gen.Type) string {
	return "Format" + t.ExportedName()
}

// DisplayName returns the label of a member: its explicit name if one was
// given, its simple name otherwise.
func DisplayName(m gen.Member) string {
	if inc := m.Info().Markers.StringerInclude; inc != nil && inc.Name != "" {
		return inc.Name
	}
	return m.Info().Name
}

func explicit(m gen.Member) bool {
	return m.Info().Markers.StringerInclude != nil
}

func options(t *gen.Type) marker.StringerOptions {
	if t.Markers.Stringer != nil {
		return *t.Markers.Stringer
	}
	return marker.DefaultStringerOptions()
}

// Collect selects the members in declaration order and resolves display
// names, an explicit include winning over an unmarked member of the same
// name.
func (c *Capability) Collect(t *gen.Type, r diag.Reporter) []gen.Member {
	if r != nil {
		opts := options(t)
		if opts.CallSuper {
			r.Report(diag.Warningf(t.Pos, t.Subject(), "callSuper is not implemented"))
		}
		if !opts.DoNotUseGetters {
			r.Report(diag.Warningf(t.Pos, t.Subject(), "doNotUseGetters is not implemented"))
		}
	}
	s := &gen.Selector{
		Capability:       marker.Stringer,
		Title:            c.Title(),
		ExcludeByDefault: t.Markers.StringerExclude,
		Reporter:         r,
	}
	names := gen.DisplayNames{Name: DisplayName, Explicit: explicit}
	return names.Dedup(t, s.Select(t), c.Title(), r)
}

// Intro implements gen.Capability.
func (*Capability) Intro(u *gen.Unit, _ []gen.Member) {
	name := FuncName(u.Type)
	u.Write("// ", name, " returns a human-readable representation of object.")
	u.Write("func ", name, "(object *", u.Type.Name, ") string {")
	u.Write("var result ", emit.Ref("strings", "Builder"))
	u.Write("result.WriteString(", strconv.Quote(u.Type.SaneName()+"("), ")")
}

// Body implements gen.Capability.
func (*Capability) Body(u *gen.Unit, m gen.Member, first bool) {
	var prefix string
	if !first {
		prefix = ", "
	}
	if options(u.Type).IncludeFieldNames {
		prefix += DisplayName(m) + "="
	}
	if prefix != "" {
		u.Write("result.WriteString(", strconv.Quote(prefix), ")")
	}
	u.Write(emit.Ref("fmt", "Fprint"), "(&result, ", gen.Extract(m, "object"), ")")
}

// Outro implements gen.Capability.
func (*Capability) Outro(u *gen.Unit, _ []gen.Member) {
	u.Write(`result.WriteString(")")`)
	u.Write("return result.String()")
	u.Write("}")
}
