package stringer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/gen/gentest"
	"github.com/syssam/derive/compiler/gen/stringer"
	"github.com/syssam/derive/compiler/load"
)

var (
	field  = gentest.Field
	method = gentest.Method
	mark   = gentest.Mark
	marked = []string{"//derive:stringer"}
)

const pointDecls = `
type Point struct {
	x int
	y string
}

func Run() []string {
	return []string{FormatPoint(&Point{1, "a"}), FormatPoint(&Point{})}
}
`

func format(t *testing.T, lt *load.Type, decls string) []string {
	t.Helper()
	res := gentest.Process(stringer.New(), lt)
	require.True(t, res.Flushed)
	i, err := gentest.Eval(res.Source, decls)
	require.NoError(t, err)
	got, err := gentest.Call[[]string](i, "Run")
	require.NoError(t, err)
	return got
}

func TestCollect(t *testing.T) {
	t.Run("declaration order", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User", marked,
			field("Name", load.ValueString),
			field("ID", load.ValueInt),
			method("Full", 0, 1, load.ValueString),
			field("Admin", load.ValueAny, gentest.Static()),
		))
		assert.Equal(t, []string{"Name", "ID"}, gen.Names(res.Unit.Members))
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("explicit include wins over an unmarked member", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User", marked,
			field("name", load.ValueString),
			field("ID", load.ValueInt),
			method("Name", 0, 1, load.ValueString, mark("//derive:stringer.include name=name")),
		))
		assert.Equal(t, []string{"ID", "Name"}, gen.Names(res.Unit.Members))
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("duplicate explicit names are kept and reported", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User", marked,
			field("A", load.ValueString, mark("//derive:stringer.include name=n")),
			field("B", load.ValueString, mark("//derive:stringer.include name=n")),
		))
		assert.Equal(t, []string{"A", "B"}, gen.Names(res.Unit.Members))
		assert.Equal(t, []string{`Duplicate Stringer display name "n", also used by A`},
			res.Messages(diag.SevWarning))
	})

	t.Run("include on a selected field is not needless", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User", marked,
			field("ID", load.ValueInt, mark("//derive:stringer.include")),
		))
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("exclude by default", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User",
			[]string{"//derive:stringer", "//derive:stringer.exclude"},
			field("ID", load.ValueInt),
			method("Full", 0, 1, load.ValueString, mark("//derive:stringer.include")),
		))
		assert.Equal(t, []string{"Full"}, gen.Names(res.Unit.Members))
	})

	t.Run("usage errors", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User", marked,
			field("ID", load.ValueInt, mark("//derive:stringer.include", "//derive:stringer.exclude")),
			method("New", 0, 1, load.ValueAny, gentest.Static(), mark("//derive:stringer.include")),
			method("Greet", 1, 1, load.ValueString, mark("//derive:stringer.include")),
			gentest.Embedded("Base", mark("//derive:stringer.include")),
		))
		assert.Empty(t, res.Unit.Members)
		assert.Equal(t, []string{
			"Combining Include and Exclude on a single element is contradictory.",
			"Stringer doesn't work with a static element.",
			"Stringer doesn't work with a method with arguments.",
			"Include and Exclude on this element is forbidden.",
		}, res.Messages(diag.SevError))
	})

	t.Run("inert options are reported", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User",
			[]string{"//derive:stringer callSuper doNotUseGetters=false"},
			field("ID", load.ValueInt),
		))
		assert.Equal(t, []string{
			"callSuper is not implemented",
			"doNotUseGetters is not implemented",
		}, res.Messages(diag.SevWarning))
		assert.Equal(t, "shop.User", res.Diagnostics[0].Subject)
	})
}

const pointGolden = `// Code generated by derive. DO NOT EDIT.

package shop

import (
	"fmt"
	"strings"
)

// FormatPoint returns a human-readable representation of object.
func FormatPoint(object *Point) string {
	var result strings.Builder
	result.WriteString("Point(")
	result.WriteString("x=")
	fmt.Fprint(&result, object.x)
	result.WriteString(", y=")
	fmt.Fprint(&result, object.y)
	result.WriteString(")")
	return result.String()
}
`

func TestGenerate(t *testing.T) {
	t.Run("golden", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("Point", marked,
			field("x", load.ValueInt),
			field("y", load.ValueString),
		))
		require.True(t, res.Flushed)
		assert.Equal(t, "shop._Point_Stringer", res.Unit.Name)
		assert.Equal(t, "point_stringer_gen.go", res.Unit.File)
		if diff := cmp.Diff(pointGolden, string(res.Source)); diff != "" {
			t.Errorf("generated source mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no members imports no fmt", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("Empty", marked))
		require.True(t, res.Flushed)
		assert.NotContains(t, string(res.Source), `"fmt"`)
		assert.Contains(t, string(res.Source), `result.WriteString("Empty(")`)
	})

	t.Run("accessors are invoked", func(t *testing.T) {
		res := gentest.Process(stringer.New(), gentest.Type("User", marked,
			method("Full", 0, 1, load.ValueString, mark("//derive:stringer.include")),
		))
		assert.Contains(t, string(res.Source), "fmt.Fprint(&result, object.Full())")
	})

	t.Run("nested types use the sane name", func(t *testing.T) {
		lt := gentest.Type("Line", marked, field("Qty", load.ValueInt))
		lt.Enclosing = []string{"Order"}
		res := gentest.Process(stringer.New(), lt)
		assert.Equal(t, "shop._Order_Line_Stringer", res.Unit.Name)
		assert.Equal(t, "order_line_stringer_gen.go", res.Unit.File)
		src := string(res.Source)
		assert.Contains(t, src, "func FormatOrderLine(object *Line) string {")
		assert.Contains(t, src, `result.WriteString("Order.Line(")`)
	})
}

func TestRuntime(t *testing.T) {
	t.Run("field names", func(t *testing.T) {
		got := format(t, gentest.Type("Point", marked,
			field("x", load.ValueInt),
			field("y", load.ValueString),
		), pointDecls)
		assert.Equal(t, []string{"Point(x=1, y=a)", "Point(x=0, y=)"}, got)
	})

	t.Run("values only", func(t *testing.T) {
		got := format(t, gentest.Type("Point", []string{"//derive:stringer includeFieldNames=false"},
			field("x", load.ValueInt),
			field("y", load.ValueString),
		), pointDecls)
		assert.Equal(t, []string{"Point(1, a)", "Point(0, )"}, got)
	})

	t.Run("renamed member", func(t *testing.T) {
		got := format(t, gentest.Type("Point", marked,
			field("x", load.ValueInt),
			field("y", load.ValueString, mark("//derive:stringer.include name=z")),
		), pointDecls)
		assert.Equal(t, []string{"Point(x=1, z=a)", "Point(x=0, z=)"}, got)
	})

	t.Run("inert options do not change the output", func(t *testing.T) {
		got := format(t, gentest.Type("Point", []string{"//derive:stringer callSuper doNotUseGetters=false"},
			field("x", load.ValueInt),
			field("y", load.ValueString),
		), pointDecls)
		assert.Equal(t, []string{"Point(x=1, y=a)", "Point(x=0, y=)"}, got)
	})

	t.Run("accessor and excluded field", func(t *testing.T) {
		got := format(t, gentest.Type("User", marked,
			field("first", load.ValueString),
			field("last", load.ValueString, mark("//derive:stringer.exclude")),
			method("Full", 0, 1, load.ValueString, mark("//derive:stringer.include name=name")),
		), `
type User struct{ first, last string }

func (u User) Full() string { return u.first + " " + u.last }

func Run() []string {
	return []string{FormatUser(&User{"Ada", "Lovelace"})}
}
`)
		assert.Equal(t, []string{"User(first=Ada, name=Ada Lovelace)"}, got)
	})
}
