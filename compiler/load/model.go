// Package load resolves annotated Go type declarations into the structural
// model consumed by the generator.
package load

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/schema/marker"
)

// Kind classifies a member of a type declaration.
type Kind string

const (
	// KindField is a value-holder: a struct field, or a package-level
	// variable or constant of the type.
	KindField Kind = "field"
	// KindMethod is an accessor candidate: a method, or a package-level
	// function whose first result is the type.
	KindMethod Kind = "method"
	// KindEmbedded is an embedded struct field. Markers are forbidden on it.
	KindEmbedded Kind = "embedded"
)

// ValueClass describes how the value of a member is compared.
type ValueClass string

const (
	ValueInt    ValueClass = "int"
	ValueUint   ValueClass = "uint"
	ValueFloat  ValueClass = "float"
	ValueString ValueClass = "string"
	ValueBool   ValueClass = "bool"
	// ValueCompare values have a method "Compare(T) int".
	ValueCompare ValueClass = "compare"
	// ValueAny values are compared by their runtime kind.
	ValueAny ValueClass = "any"
)

// Type is an annotated type declaration loaded from a user package.
type Type struct {
	Name    string `json:"name"`
	Package string `json:"package"`
	PkgName string `json:"pkg_name"`
	Dir     string `json:"dir,omitempty"`
	// Enclosing is the nesting chain outside the type, outermost first.
	// Package-level Go types have none.
	Enclosing []string           `json:"enclosing,omitempty"`
	Pos       diag.Position      `json:"pos"`
	Markers   marker.TypeMarkers `json:"markers"`
	Members   []*Member          `json:"members,omitempty"`
}

// Member is a field, method, or associated package-level declaration.
type Member struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Static bool   `json:"static,omitempty"`
	// Params and Results are the parameter and result counts of methods.
	Params  int `json:"params,omitempty"`
	Results int `json:"results,omitempty"`
	// Order is the declaration order index among all members of the type.
	Order   int                  `json:"order"`
	Pos     diag.Position        `json:"pos"`
	Type    string               `json:"type,omitempty"`
	Value   ValueClass           `json:"value,omitempty"`
	Markers marker.MemberMarkers `json:"markers"`
}

// QualifiedName returns the name of the type qualified by its package name
// and nesting chain, e.g. "shop.Order.Line".
func (t *Type) QualifiedName() string {
	name := t.PkgName
	for _, e := range t.Enclosing {
		name += "." + e
	}
	return name + "." + t.Name
}

// Member returns the member with the given name, or nil.
func (t *Type) Member(name string) *Member {
	for _, m := range t.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// SortMembers orders the members by source position and renumbers them.
func (t *Type) SortMembers() {
	slices.SortStableFunc(t.Members, func(a, b *Member) int {
		switch {
		case a.Pos.Before(b.Pos):
			return -1
		case b.Pos.Before(a.Pos):
			return 1
		}
		return 0
	})
	for i, m := range t.Members {
		m.Order = i
	}
}

// MarshalTypes encodes the loaded types into JSON.
func MarshalTypes(types []*Type) ([]byte, error) {
	return json.MarshalIndent(types, "", "  ")
}

// UnmarshalTypes decodes the given buffer to loaded types. Members are
// renumbered by their position in the buffer.
func UnmarshalTypes(buf []byte) ([]*Type, error) {
	var types []*Type
	if err := json.Unmarshal(buf, &types); err != nil {
		return nil, fmt.Errorf("derive/load: decode types: %w", err)
	}
	for i, t := range types {
		if t == nil || t.Name == "" || t.PkgName == "" {
			return nil, fmt.Errorf("derive/load: type %d: missing name or package name", i)
		}
		for j, m := range t.Members {
			if m == nil || m.Name == "" {
				return nil, fmt.Errorf("derive/load: type %q: member %d has no name", t.Name, j)
			}
			if m.Kind == "" {
				m.Kind = KindField
			}
			if m.Value == "" {
				m.Value = ValueAny
			}
			m.Order = j
		}
	}
	return types, nil
}
