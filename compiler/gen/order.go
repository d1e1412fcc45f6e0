package gen

import (
	"cmp"
	"slices"

	"github.com/syssam/derive/compiler/diag"
)

// SortByRank stable-sorts members by ascending rank. Members sharing a rank
// keep their declaration order.
func SortByRank(ms []Member, rank func(Member) int) {
	slices.SortStableFunc(ms, func(a, b Member) int {
		return cmp.Compare(rank(a), rank(b))
	})
}

// DisplayNames resolves display names and the explicit flag of members.
type DisplayNames struct {
	// Name returns the display name of a member.
	Name func(Member) string
	// Explicit reports whether the member carries an explicit include.
	Explicit func(Member) bool
}

// Dedup drops every member without an explicit include whose display name
// is claimed by an explicitly included member. Explicit members sharing a
// display name are all kept and reported as a warning. Order is preserved.
func (d DisplayNames) Dedup(t *Type, ms []Member, title string, r diag.Reporter) []Member {
	claimed := make(map[string]Member)
	for _, m := range ms {
		if !d.Explicit(m) {
			continue
		}
		name := d.Name(m)
		if first, ok := claimed[name]; ok {
			if r != nil {
				r.Report(diag.Warningf(m.Info().Pos, t.MemberSubject(m),
					"Duplicate %s display name %q, also used by %s", title, name, first.Info().Name))
			}
			continue
		}
		claimed[name] = m
	}
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		if _, ok := claimed[d.Name(m)]; ok && !d.Explicit(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}
