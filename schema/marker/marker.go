package marker

import (
	"fmt"
	"strings"
)

// Capability names. They are the directive namespaces and the struct tag keys.
const (
	Compare  = "compare"
	Stringer = "stringer"
)

// Prefix starts every marker directive comment.
const Prefix = "//derive:"

// Capabilities lists the known capabilities in a fixed order.
var Capabilities = []string{Compare, Stringer}

// Kind is the kind of a marker.
type Kind uint8

const (
	// KindCapability requests a capability on a type ("//derive:compare").
	KindCapability Kind = iota
	// KindInclude explicitly includes a member ("//derive:compare.include").
	KindInclude
	// KindExclude excludes a member, or all members by default when put on a type.
	KindExclude
)

func (k Kind) String() string {
	switch k {
	case KindCapability:
		return "capability"
	case KindInclude:
		return "Include"
	case KindExclude:
		return "Exclude"
	}
	return "unknown"
}

type (
	// CompareOptions are the type-level options of the compare capability.
	CompareOptions struct {
		NullsFirst bool `json:"nulls_first,omitempty"`
		NullsLast  bool `json:"nulls_last,omitempty"`
	}

	// CompareInclude is the Include marker of the compare capability.
	CompareInclude struct {
		// Rank orders members: lower ranks are compared first, equal
		// ranks keep declaration order.
		Rank int `json:"rank,omitempty"`
		// Reverse negates the contribution of the member.
		Reverse    bool `json:"reverse,omitempty"`
		NullsFirst bool `json:"nulls_first,omitempty"`
		NullsLast  bool `json:"nulls_last,omitempty"`
	}

	// StringerOptions are the type-level options of the stringer capability.
	StringerOptions struct {
		IncludeFieldNames bool `json:"include_field_names"`
		CallSuper         bool `json:"call_super,omitempty"`
		DoNotUseGetters   bool `json:"do_not_use_getters"`
	}

	// StringerInclude is the Include marker of the stringer capability.
	StringerInclude struct {
		// Name replaces the member name in the formatted output.
		Name string `json:"name,omitempty"`
	}
)

// DefaultStringerOptions returns the options of a bare "//derive:stringer".
func DefaultStringerOptions() StringerOptions {
	return StringerOptions{IncludeFieldNames: true, DoNotUseGetters: true}
}

// TypeMarkers holds the markers declared on a type.
type TypeMarkers struct {
	Compare         *CompareOptions  `json:"compare,omitempty"`
	CompareExclude  bool             `json:"compare_exclude,omitempty"`
	Stringer        *StringerOptions `json:"stringer,omitempty"`
	StringerExclude bool             `json:"stringer_exclude,omitempty"`
}

// IsZero reports whether no marker was declared.
func (m TypeMarkers) IsZero() bool {
	return m.Compare == nil && m.Stringer == nil && !m.CompareExclude && !m.StringerExclude
}

// Apply merges a parsed directive into the type markers.
func (m *TypeMarkers) Apply(d Directive) error {
	switch {
	case d.Kind == KindInclude:
		return d.errorf("Include is not allowed on a type")
	case d.Kind == KindExclude:
		if len(d.Args) > 0 {
			return d.errorf("%s takes no options", d.Describe())
		}
		if d.Capability == Compare {
			m.CompareExclude = true
		} else {
			m.StringerExclude = true
		}
		return nil
	case d.Capability == Compare:
		opts := CompareOptions{}
		if m.Compare != nil {
			opts = *m.Compare
		}
		for _, a := range d.Args {
			var err error
			switch {
			case a.is("nullsFirst"):
				opts.NullsFirst, err = a.boolValue()
			case a.is("nullsLast"):
				opts.NullsLast, err = a.boolValue()
			default:
				err = a.unknown()
			}
			if err != nil {
				return d.wrap(err)
			}
		}
		m.Compare = &opts
	default:
		opts := DefaultStringerOptions()
		if m.Stringer != nil {
			opts = *m.Stringer
		}
		for _, a := range d.Args {
			var err error
			switch {
			case a.is("includeFieldNames"):
				opts.IncludeFieldNames, err = a.boolValue()
			case a.is("callSuper"):
				opts.CallSuper, err = a.boolValue()
			case a.is("doNotUseGetters"):
				opts.DoNotUseGetters, err = a.boolValue()
			default:
				err = a.unknown()
			}
			if err != nil {
				return d.wrap(err)
			}
		}
		m.Stringer = &opts
	}
	return nil
}

// MemberMarkers holds the markers declared on a member.
type MemberMarkers struct {
	CompareInclude  *CompareInclude  `json:"compare_include,omitempty"`
	CompareExclude  bool             `json:"compare_exclude,omitempty"`
	StringerInclude *StringerInclude `json:"stringer_include,omitempty"`
	StringerExclude bool             `json:"stringer_exclude,omitempty"`
}

// IsZero reports whether no marker was declared.
func (m MemberMarkers) IsZero() bool {
	return m.CompareInclude == nil && m.StringerInclude == nil && !m.CompareExclude && !m.StringerExclude
}

// Marked reports whether the member carries an Include or an Exclude marker
// of the given capability.
func (m MemberMarkers) Marked(capability string) (include, exclude bool) {
	if capability == Compare {
		return m.CompareInclude != nil, m.CompareExclude
	}
	return m.StringerInclude != nil, m.StringerExclude
}

// Apply merges a parsed directive into the member markers. A second Include
// marker of the same capability is an error and leaves the first one in place.
func (m *MemberMarkers) Apply(d Directive) error {
	switch d.Kind {
	case KindCapability:
		return d.errorf("capability marker is only allowed on a type")
	case KindExclude:
		if len(d.Args) > 0 {
			return d.errorf("%s takes no options", d.Describe())
		}
		if d.Capability == Compare {
			m.CompareExclude = true
		} else {
			m.StringerExclude = true
		}
		return nil
	}
	if include, _ := m.Marked(d.Capability); include {
		return d.errorf("duplicate %s marker", d.Describe())
	}
	if d.Capability == Compare {
		inc := &CompareInclude{}
		for _, a := range d.Args {
			var err error
			switch {
			case a.is("rank"):
				inc.Rank, err = a.intValue()
			case a.is("reverse"):
				inc.Reverse, err = a.boolValue()
			case a.is("nullsFirst"):
				inc.NullsFirst, err = a.boolValue()
			case a.is("nullsLast"):
				inc.NullsLast, err = a.boolValue()
			default:
				err = a.unknown()
			}
			if err != nil {
				return d.wrap(err)
			}
		}
		m.CompareInclude = inc
		return nil
	}
	inc := &StringerInclude{}
	for _, a := range d.Args {
		if !a.is("name") {
			return d.wrap(a.unknown())
		}
		if !a.HasValue {
			return d.errorf("option %q requires a value", a.Key)
		}
		inc.Name = a.Value
	}
	m.StringerInclude = inc
	return nil
}

// ParseError is returned for malformed markers.
type ParseError struct {
	// Text is the marker as written in the source.
	Text    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Text == "" {
		return "derive: invalid marker: " + e.Message
	}
	return fmt.Sprintf("derive: invalid marker %q: %s", e.Text, e.Message)
}

func (d Directive) errorf(format string, args ...any) error {
	return &ParseError{Text: d.Text, Message: fmt.Sprintf(format, args...)}
}

func (d Directive) wrap(err error) error {
	return &ParseError{Text: d.Text, Message: err.Error()}
}

// Describe renders a short human name of a directive, e.g. "compare.include".
func (d Directive) Describe() string {
	switch d.Kind {
	case KindInclude:
		return d.Capability + ".include"
	case KindExclude:
		return d.Capability + ".exclude"
	}
	return d.Capability
}

// keyEqual compares option keys case-insensitively, so that both
// "nullsFirst" and "nullsfirst" are accepted.
func keyEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}
