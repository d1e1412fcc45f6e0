package gen

import (
	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/load"
	"github.com/syssam/derive/schema/marker"
)

// MemberInfo holds what every member variant shares.
type MemberInfo struct {
	Name    string
	Static  bool
	Order   int
	Pos     diag.Position
	Value   load.ValueClass
	Markers marker.MemberMarkers
}

// Member is a closed variant: *Field, *Accessor or *Element.
// Code switching over members matches on these three types only.
type Member interface {
	Info() *MemberInfo
	sealed()
}

type (
	// Field is a value-holder, read directly.
	Field struct{ *MemberInfo }

	// Accessor is a method whose invocation yields the value.
	Accessor struct {
		*MemberInfo
		Params  int
		Results int
	}

	// Element is a member that can neither be read nor invoked, such as an
	// embedded field. Markers on it are forbidden.
	Element struct {
		*MemberInfo
		Kind load.Kind
	}
)

func (f *Field) Info() *MemberInfo    { return f.MemberInfo }
func (a *Accessor) Info() *MemberInfo { return a.MemberInfo }
func (e *Element) Info() *MemberInfo  { return e.MemberInfo }

func (*Field) sealed()    {}
func (*Accessor) sealed() {}
func (*Element) sealed()  {}

// NewMember converts a loaded member into its variant.
func NewMember(m *load.Member) Member {
	info := &MemberInfo{
		Name:    m.Name,
		Static:  m.Static,
		Order:   m.Order,
		Pos:     m.Pos,
		Value:   m.Value,
		Markers: m.Markers,
	}
	if info.Value == "" {
		info.Value = load.ValueAny
	}
	switch m.Kind {
	case load.KindField:
		return &Field{MemberInfo: info}
	case load.KindMethod:
		return &Accessor{MemberInfo: info, Params: m.Params, Results: m.Results}
	default:
		return &Element{MemberInfo: info, Kind: m.Kind}
	}
}

// Extract returns the Go expression reading the member from recv.
// Elements have no value and yield an empty string.
func Extract(m Member, recv string) string {
	switch m := m.(type) {
	case *Field:
		return recv + "." + m.Name
	case *Accessor:
		return recv + "." + m.Name + "()"
	}
	return ""
}

// IsValueHolder reports whether m is an instance field.
func IsValueHolder(m Member) bool {
	f, ok := m.(*Field)
	return ok && !f.Static
}

// Names returns the member names, in order.
func Names(ms []Member) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Info().Name
	}
	return names
}
