package marker

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Directive is a single parsed marker, either from a "//derive:" comment
// or from a struct tag.
type Directive struct {
	Capability string
	Kind       Kind
	Args       []Arg
	// Text is the marker as written in the source.
	Text string
}

// Arg is a "key" or "key=value" option of a directive.
type Arg struct {
	Key      string
	Value    string
	HasValue bool
}

func (a Arg) is(key string) bool { return keyEqual(a.Key, key) }

func (a Arg) boolValue() (bool, error) {
	if !a.HasValue {
		return true, nil
	}
	b, err := strconv.ParseBool(a.Value)
	if err != nil {
		return false, fmt.Errorf("option %q expects a boolean, got %q", a.Key, a.Value)
	}
	return b, nil
}

func (a Arg) intValue() (int, error) {
	if !a.HasValue {
		return 0, fmt.Errorf("option %q requires a value", a.Key)
	}
	n, err := strconv.Atoi(a.Value)
	if err != nil {
		return 0, fmt.Errorf("option %q expects an integer, got %q", a.Key, a.Value)
	}
	return n, nil
}

func (a Arg) unknown() error {
	return fmt.Errorf("unknown option %q", a.Key)
}

// ParseDirective parses a comment line. It reports false if the line is not
// a derive marker at all, and an error if it is a malformed one.
//
//	//derive:compare nullsFirst
//	//derive:compare.include rank=2 reverse
//	//derive:stringer.include name="display name"
func ParseDirective(line string) (Directive, bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, Prefix) {
		return Directive{}, false, nil
	}
	d := Directive{Text: line}
	body := strings.TrimPrefix(line, Prefix)
	head, rest := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		head, rest = body[:i], body[i:]
	}
	capability, kind, _ := strings.Cut(head, ".")
	if !known(capability) {
		return d, true, d.errorf("unknown capability %q", capability)
	}
	d.Capability = capability
	switch kind {
	case "":
		d.Kind = KindCapability
	case "include":
		d.Kind = KindInclude
	case "exclude":
		d.Kind = KindExclude
	default:
		return d, true, d.errorf("unknown marker %q", kind)
	}
	fields, err := splitArgs(rest)
	if err != nil {
		return d, true, d.wrap(err)
	}
	for _, f := range fields {
		a, err := parseArg(f)
		if err != nil {
			return d, true, d.wrap(err)
		}
		d.Args = append(d.Args, a)
	}
	return d, true, nil
}

// ParseTag extracts the member markers of every capability from a struct tag.
// A tag value lists the marker kinds followed by options, separated by commas:
//
//	compare:"include,rank=2,reverse" stringer:"exclude"
//
// "-" is a synonym of "exclude" and an empty value is a bare include.
func ParseTag(tag reflect.StructTag) ([]Directive, error) {
	var (
		ds   []Directive
		errs []error
	)
	for _, capability := range Capabilities {
		value, ok := tag.Lookup(capability)
		if !ok {
			continue
		}
		parsed, err := parseTagValue(capability, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ds = append(ds, parsed...)
	}
	return ds, errors.Join(errs...)
}

func parseTagValue(capability, value string) ([]Directive, error) {
	text := fmt.Sprintf("%s:%q", capability, value)
	var (
		kinds []Kind
		args  []Arg
	)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		switch item {
		case "include":
			kinds = append(kinds, KindInclude)
		case "exclude", "-":
			kinds = append(kinds, KindExclude)
		case "":
			if value != "" {
				return nil, &ParseError{Text: text, Message: "empty option"}
			}
		default:
			a, err := parseArg(item)
			if err != nil {
				return nil, &ParseError{Text: text, Message: err.Error()}
			}
			args = append(args, a)
		}
	}
	if len(kinds) == 0 {
		kinds = append(kinds, KindInclude)
	}
	ds := make([]Directive, 0, len(kinds))
	for _, k := range kinds {
		d := Directive{Capability: capability, Kind: k, Text: text}
		if k == KindInclude || !slices.Contains(kinds, KindInclude) {
			d.Args = args
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func parseArg(s string) (Arg, error) {
	key, value, hasValue := strings.Cut(s, "=")
	if key == "" {
		return Arg{}, fmt.Errorf("missing option name in %q", s)
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return Arg{}, fmt.Errorf("invalid option name %q", key)
		}
	}
	if hasValue && strings.HasPrefix(value, `"`) {
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid quoted value for %q: %w", key, err)
		}
		value = unquoted
	}
	return Arg{Key: key, Value: value, HasValue: hasValue}, nil
}

// splitArgs splits directive options on white space, keeping quoted values
// together.
func splitArgs(s string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case !quoted && unicode.IsSpace(r):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	if quoted {
		return nil, errors.New("unterminated quoted value")
	}
	flush()
	return fields, nil
}

func known(capability string) bool {
	return slices.Contains(Capabilities, capability)
}
