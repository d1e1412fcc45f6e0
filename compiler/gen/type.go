package gen

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/load"
	"github.com/syssam/derive/schema/marker"
)

// Type is an annotated type declaration prepared for generation.
type Type struct {
	Name    string
	Package string
	PkgName string
	Dir     string
	// Enclosing is the nesting chain outside the type, outermost first.
	Enclosing []string
	Pos       diag.Position
	Markers   marker.TypeMarkers
	// Members are in declaration order.
	Members []Member
}

// NewType converts a loaded type.
func NewType(t *load.Type) *Type {
	nt := &Type{
		Name:      t.Name,
		Package:   t.Package,
		PkgName:   t.PkgName,
		Dir:       t.Dir,
		Enclosing: t.Enclosing,
		Pos:       t.Pos,
		Markers:   t.Markers,
		Members:   make([]Member, 0, len(t.Members)),
	}
	for _, m := range t.Members {
		nt.Members = append(nt.Members, NewMember(m))
	}
	return nt
}

func (t *Type) chain() []string {
	return append(append([]string(nil), t.Enclosing...), t.Name)
}

// SaneName is the nesting chain joined with dots, e.g. "Order.Line".
func (t *Type) SaneName() string {
	return strings.Join(t.chain(), ".")
}

// UnitName returns the name of the generated unit of a capability:
// the package name, a "._" separator, the nesting chain with dots replaced by
// underscores and the capability suffix, e.g. "shop._Order_Line_Comparable".
func (t *Type) UnitName(suffix string) string {
	return t.PkgName + "._" + strings.ReplaceAll(t.SaneName(), ".", "_") + suffix
}

// ExportedName returns the nesting chain as one exported identifier,
// e.g. "OrderLine" or "Point" for an unexported "point".
func (t *Type) ExportedName() string {
	// A Caser is stateful; types are processed concurrently.
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, s := range t.chain() {
		b.WriteString(title.String(s))
	}
	return b.String()
}

// FileName returns the base name of the file of a generated unit,
// e.g. "order_line_comparable_gen.go".
func (t *Type) FileName(fileSuffix string) string {
	return inflect.Underscore(t.ExportedName()) + "_" + fileSuffix + "_gen.go"
}

// Subject names the type in diagnostics.
func (t *Type) Subject() string {
	return t.PkgName + "." + t.SaneName()
}

// MemberSubject names a member in diagnostics.
func (t *Type) MemberSubject(m Member) string {
	return t.Subject() + "." + m.Info().Name
}
