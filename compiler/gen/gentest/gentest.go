// Package gentest builds loaded types in memory and runs generated units,
// for testing capabilities without loading packages from disk.
package gentest

import (
	"fmt"
	"regexp"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/load"
	"github.com/syssam/derive/schema/marker"
)

// Option configures a member.
type Option func(*load.Member)

// Static makes the member static.
func Static() Option {
	return func(m *load.Member) { m.Static = true }
}

// Mark applies marker directives, written as in source comments, to the
// member. It panics on malformed directives.
func Mark(directives ...string) Option {
	return func(m *load.Member) {
		for _, line := range directives {
			if err := m.Markers.Apply(directive(line)); err != nil {
				panic(err)
			}
		}
	}
}

// Field returns an instance field.
func Field(name string, class load.ValueClass, opts ...Option) *load.Member {
	return member(&load.Member{Name: name, Kind: load.KindField, Value: class}, opts)
}

// Method returns a method with the given parameter and result counts.
func Method(name string, params, results int, class load.ValueClass, opts ...Option) *load.Member {
	return member(&load.Member{Name: name, Kind: load.KindMethod, Params: params, Results: results, Value: class}, opts)
}

// Embedded returns an embedded field.
func Embedded(name string, opts ...Option) *load.Member {
	return member(&load.Member{Name: name, Kind: load.KindEmbedded}, opts)
}

func member(m *load.Member, opts []Option) *load.Member {
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Type returns a type of package "shop" declared in shop.go. The directives
// are applied to the type; members get increasing orders and lines.
func Type(name string, directives []string, members ...*load.Member) *load.Type {
	t := &load.Type{
		Name:    name,
		Package: "example.com/shop",
		PkgName: "shop",
		Pos:     diag.Position{Filename: "shop.go", Line: 1, Column: 6},
		Members: members,
	}
	for _, line := range directives {
		if err := t.Markers.Apply(directive(line)); err != nil {
			panic(err)
		}
	}
	for i, m := range members {
		m.Order = i
		m.Pos = diag.Position{Filename: "shop.go", Line: i + 2, Column: 2}
	}
	return t
}

func directive(line string) marker.Directive {
	d, ok, err := marker.ParseDirective(line)
	if err != nil {
		panic(err)
	}
	if !ok {
		panic(fmt.Sprintf("gentest: %q is not a directive", line))
	}
	return d
}

// Result is the outcome of processing one type with one capability.
type Result struct {
	Unit        *gen.Unit
	Source      []byte
	Diagnostics []diag.Diagnostic
	Flushed     bool
}

// Process runs capability c on t with an in-memory sink and the default
// header.
func Process(c gen.Capability, t *load.Type) *Result {
	bag := diag.NewBag()
	sink := gen.NewMemorySink()
	p := &gen.Processor{
		Header:   gen.DefaultHeader,
		Sink:     sink,
		Reporter: diag.BagReporter{Bag: bag},
	}
	u, ok := p.Process(gen.NewType(t), c)
	src, _ := sink.Unit(u.Name)
	bag.Sort()
	return &Result{Unit: u, Source: src, Diagnostics: bag.Items(), Flushed: ok}
}

// Messages returns the diagnostic messages of a severity, in order.
func (r *Result) Messages(sev diag.Severity) []string {
	var msgs []string
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			msgs = append(msgs, d.Message)
		}
	}
	return msgs
}

var packageClause = regexp.MustCompile(`(?m)^package \w+$`)

// Eval interprets a generated unit together with decls, the declarations
// the unit relies on, as package main. Symbols are then reachable through
// the returned interpreter as "main.Name".
func Eval(src []byte, decls string) (*interp.Interpreter, error) {
	code := packageClause.ReplaceAllString(string(src), "package main") + "\n" + decls
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("gentest: use stdlib: %w", err)
	}
	if _, err := i.Eval(code); err != nil {
		return nil, fmt.Errorf("gentest: eval: %w\n%s", err, code)
	}
	return i, nil
}

// Call evaluates a function "main.name" of type func() T and calls it.
func Call[T any](i *interp.Interpreter, name string) (T, error) {
	var zero T
	v, err := i.Eval("main." + name)
	if err != nil {
		return zero, err
	}
	fn, ok := v.Interface().(func() T)
	if !ok {
		return zero, fmt.Errorf("gentest: main.%s is %s, not func() %T", name, v.Type(), zero)
	}
	return fn(), nil
}
