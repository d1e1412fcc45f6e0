package gen

import (
	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/emit"
)

// Capability generates one kind of companion unit.
//
// Collect selects and orders the participating members and reports every
// diagnostic of the capability. The processor then calls Intro once, Body
// once per collected member and Outro once, all writing to the same unit.
type Capability interface {
	// Name is the marker namespace, e.g. "compare".
	Name() string
	// Title names the capability in diagnostics, e.g. "Compare".
	Title() string
	// Suffix ends the unit name, e.g. "_Comparable".
	Suffix() string
	// FileSuffix is put in the file name, e.g. "comparable".
	FileSuffix() string
	// Enabled reports whether the type requests the capability.
	Enabled(t *Type) bool
	Collect(t *Type, r diag.Reporter) []Member
	Intro(u *Unit, ms []Member)
	Body(u *Unit, m Member, first bool)
	Outro(u *Unit, ms []Member)
}

// Unit is a generated compilation unit: one capability for one type.
type Unit struct {
	// Name follows the unit naming contract, e.g. "shop._User_Comparable".
	Name       string
	Capability string
	Type       *Type
	// Members are the collected members, in emission order.
	Members []Member
	// Dir and File locate the unit on disk.
	Dir  string
	File string
	*emit.Writer
}

// NewUnit creates an empty unit of capability c for t.
func NewUnit(t *Type, c Capability) *Unit {
	return &Unit{
		Name:       t.UnitName(c.Suffix()),
		Capability: c.Name(),
		Type:       t,
		Dir:        t.Dir,
		File:       t.FileName(c.FileSuffix()),
		Writer:     emit.NewWriter(),
	}
}

// Source renders the unit with the given header comment.
func (u *Unit) Source(header string) []byte {
	return u.Render(header, u.Type.PkgName)
}
