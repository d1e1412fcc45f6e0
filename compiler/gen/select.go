package gen

import (
	"fmt"

	"github.com/syssam/derive/compiler/diag"
)

// Usage error messages of the selector. Capability dependent messages take
// the capability title.
const (
	MsgContradictory   = "Combining Include and Exclude on a single element is contradictory."
	MsgStatic          = "%s doesn't work with a static element."
	MsgMethodArguments = "%s doesn't work with a method with arguments."
	MsgForbidden       = "Include and Exclude on this element is forbidden."
	MsgNeedless        = "Needless %s Include"
)

// Selector filters the members of a type down to those participating in
// one capability.
type Selector struct {
	// Capability is the marker namespace, e.g. "compare".
	Capability string
	// Title names the capability in messages, e.g. "Compare".
	Title string
	// ExcludeByDefault drops unmarked fields.
	ExcludeByDefault bool
	// Needless reports whether an explicit include on a field that would be
	// selected anyway is a no-op. Nil disables the warning.
	Needless func(Member) bool
	Reporter diag.Reporter
}

// Select returns the participating members in declaration order.
func (s *Selector) Select(t *Type) []Member {
	var selected []Member
	for _, m := range t.Members {
		if s.Accept(t, m) {
			selected = append(selected, m)
		}
	}
	return selected
}

// Accept applies the selection rules to a single member:
//
//  1. include and exclude together are contradictory
//  2. marked static members are rejected
//  3. marked methods with parameters are rejected
//  4. marked elements, and methods without exactly one result, are rejected
//  5. an explicit exclude drops the member
//  6. an explicit include selects it
//  7. otherwise instance fields are selected unless excluded by default
//
// Rules 1 to 4 report an error.
func (s *Selector) Accept(t *Type, m Member) bool {
	info := m.Info()
	include, exclude := info.Markers.Marked(s.Capability)
	if include || exclude {
		if msg := s.violation(m, include, exclude); msg != "" {
			s.report(diag.New(diag.SevError, info.Pos, t.MemberSubject(m), msg))
			return false
		}
	}
	if exclude {
		return false
	}
	byDefault := !s.ExcludeByDefault && IsValueHolder(m)
	if !include {
		return byDefault
	}
	if byDefault && s.Needless != nil && s.Needless(m) {
		s.report(diag.Warningf(info.Pos, t.MemberSubject(m), MsgNeedless, s.Title))
	}
	return true
}

func (s *Selector) violation(m Member, include, exclude bool) string {
	if include && exclude {
		return MsgContradictory
	}
	if m.Info().Static {
		return fmt.Sprintf(MsgStatic, s.Title)
	}
	switch m := m.(type) {
	case *Field:
		return ""
	case *Accessor:
		if m.Params > 0 {
			return fmt.Sprintf(MsgMethodArguments, s.Title)
		}
		if m.Results == 1 {
			return ""
		}
	}
	return MsgForbidden
}

func (s *Selector) report(d diag.Diagnostic) {
	if s.Reporter != nil {
		s.Reporter.Report(d)
	}
}
