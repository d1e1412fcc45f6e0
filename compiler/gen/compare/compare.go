// Package compare generates ordering comparison functions.
//
// For a type T marked with //derive:compare the generated unit declares
//
//	func CompareT(first, second *T) int
//
// which compares the selected members one after the other, lowest rank
// first, and stops at the first member that differs.
package compare

import (
	"fmt"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/load"
	"github.com/syssam/derive/schema/marker"
)

// Capability implements gen.Capability for ordering comparison.
type Capability struct{}

// New returns the compare capability.
func New() *Capability { return &Capability{} }

var _ gen.Capability = (*Capability)(nil)

func (*Capability) Name() string       { return marker.Compare }
func (*Capability) Title() string      { return "Compare" }
func (*Capability) Suffix() string     { return "_Comparable" }
func (*Capability) FileSuffix() string { return "comparable" }

// Enabled implements gen.Capability.
func (*Capability) Enabled(t *gen.Type) bool {
	return t.Markers.Compare != nil
}

// FuncName returns the name of the generated comparison function.
func FuncName(t *gen.Type) string {
	return "Compare" + t.ExportedName()
}

// Collect selects the members and sorts them by rank. Null ordering
// options are reported as not implemented and otherwise ignored.
func (c *Capability) Collect(t *gen.Type, r diag.Reporter) []gen.Member {
	if opts := t.Markers.Compare; opts != nil {
		nullsWarnings(r, t.Pos, t.Subject(), opts.NullsFirst, opts.NullsLast)
	}
	for _, m := range t.Members {
		if inc := m.Info().Markers.CompareInclude; inc != nil {
			nullsWarnings(r, m.Info().Pos, t.MemberSubject(m), inc.NullsFirst, inc.NullsLast)
		}
	}
	s := &gen.Selector{
		Capability:       marker.Compare,
		Title:            c.Title(),
		ExcludeByDefault: t.Markers.CompareExclude,
		Needless: func(m gen.Member) bool {
			inc := m.Info().Markers.CompareInclude
			return inc.Rank == 0 && !inc.Reverse
		},
		Reporter: r,
	}
	ms := s.Select(t)
	gen.SortByRank(ms, Rank)
	return ms
}

// Rank returns the rank of a member, 0 when it has no explicit include.
func Rank(m gen.Member) int {
	if inc := m.Info().Markers.CompareInclude; inc != nil {
		return inc.Rank
	}
	return 0
}

func reversed(m gen.Member) bool {
	inc := m.Info().Markers.CompareInclude
	return inc != nil && inc.Reverse
}

func nullsWarnings(r diag.Reporter, pos diag.Position, subject string, first, last bool) {
	if r == nil {
		return
	}
	if first {
		r.Report(diag.Warningf(pos, subject, "nullsFirst is not implemented"))
	}
	if last {
		r.Report(diag.Warningf(pos, subject, "nullsLast is not implemented"))
	}
}

// Intro implements gen.Capability.
func (*Capability) Intro(u *gen.Unit, _ []gen.Member) {
	name := FuncName(u.Type)
	u.Write("// ", name, " orders two ", u.Type.SaneName(), " values member by member.")
	u.Write("// It returns a negative number, zero or a positive number when first")
	u.Write("// sorts before, together with or after second.")
	u.Write("func ", name, "(first, second *", u.Type.Name, ") int {")
	u.Write("result := 0")
}

// Body implements gen.Capability. Every member but the first is compared
// only while all previous members were equal.
func (*Capability) Body(u *gen.Unit, m gen.Member, first bool) {
	if !first {
		u.Write("if result != 0 {")
		u.Write("return result")
		u.Write("}")
	}
	sign := ""
	if reversed(m) {
		sign = "-"
	}
	u.Write("result = ", sign, compareExpr(u.Type, m))
}

// Outro implements gen.Capability.
func (*Capability) Outro(u *gen.Unit, ms []gen.Member) {
	u.Write("return result")
	u.Write("}")
	used := make(map[load.ValueClass]bool)
	for _, m := range ms {
		used[m.Info().Value] = true
	}
	for _, class := range helperOrder {
		if used[class] {
			u.Write()
			helpers[class](u, helperName(u.Type, class))
		}
	}
}

func compareExpr(t *gen.Type, m gen.Member) string {
	a, b := gen.Extract(m, "first"), gen.Extract(m, "second")
	class := m.Info().Value
	switch class {
	case load.ValueCompare:
		return fmt.Sprintf("%s.Compare(%s)", a, b)
	case load.ValueAny:
		return fmt.Sprintf("%s(%s, %s)", helperName(t, class), a, b)
	}
	conv := conversions[class]
	return fmt.Sprintf("%s(%s(%s), %s(%s))", helperName(t, class), conv, a, conv, b)
}
