package emit_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/emit"
)

func TestWriterIndentation(t *testing.T) {
	w := emit.NewWriter()
	w.Write("func f(x int) int {")
	w.Write("if x > 0 {")
	w.Write("return x")
	w.Write("} else {")
	w.Write("return -x")
	w.Write("}")
	w.Write("}")
	w.Write()
	w.Write("var (")
	w.Write("a = 1")
	w.Write(")")

	want := []string{
		"func f(x int) int {",
		"\tif x > 0 {",
		"\t\treturn x",
		"\t} else {",
		"\t\treturn -x",
		"\t}",
		"}",
		"",
		"var (",
		"\ta = 1",
		")",
	}
	if diff := cmp.Diff(want, w.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, w.Depth())
}

func TestWriterIgnoresCallerIndentation(t *testing.T) {
	w := emit.NewWriter()
	w.Write("   {")
	w.Write("\t\t\tx")
	w.Write("}")
	assert.Equal(t, []string{"{", "\tx", "}"}, w.Lines())
}

func TestWriterUnbalancedCloseDoesNotUnderflow(t *testing.T) {
	w := emit.NewWriter()
	w.Write("}")
	w.Write("x")
	assert.Equal(t, []string{"}", "x"}, w.Lines())
	assert.Zero(t, w.Depth())
}

func TestWriterParts(t *testing.T) {
	w := emit.NewWriter()
	w.Write("var b ", emit.Ref("strings", "Builder"))
	w.Write("x := ", 42, " + ", 1.5)
	w.Write("_ = ", emit.Ref("", "local"))
	w.Writef("return %s(%d)", "f", 3)

	assert.Equal(t, []string{
		"var b strings.Builder",
		"x := 42 + 1.5",
		"_ = local",
		"return f(3)",
	}, w.Lines())
	assert.Equal(t, []string{"strings"}, w.Imports())
	assert.Equal(t, 4, w.Len())
}

func TestWriterImports(t *testing.T) {
	w := emit.NewWriter()
	w.AddImport("strings")
	w.AddImport("fmt")
	w.AddImport("strings")
	w.AddImport("")
	w.Write(emit.Ref("reflect", "Value"))
	assert.Equal(t, []string{"fmt", "reflect", "strings"}, w.Imports())
}

func TestRender(t *testing.T) {
	w := emit.NewWriter()
	w.Write("func FormatPoint(object *Point) string {")
	w.Write("var result ", emit.Ref("strings", "Builder"))
	w.Write("return result.String()")
	w.Write("}")
	src := w.Render("Code generated by derive. DO NOT EDIT.", "shop")

	want := `// Code generated by derive. DO NOT EDIT.

package shop

import (
	"strings"
)

func FormatPoint(object *Point) string {
	var result strings.Builder
	return result.String()
}
`
	if diff := cmp.Diff(want, string(src)); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}

	formatted, err := emit.Format("point_stringer_gen.go", src)
	require.NoError(t, err)
	assert.Contains(t, string(formatted), "package shop")
}

func TestRenderWithoutHeaderOrImports(t *testing.T) {
	src := emit.NewWriter().Render("", "empty")
	assert.Equal(t, "package empty\n", string(src))
}

func TestFormatError(t *testing.T) {
	_, err := emit.Format("bad.go", []byte("package bad\nfunc {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format bad.go")
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"strings", "strings"},
		{"math/rand/v2", "rand"},
		{"gopkg.in/yaml.v3", "yaml"},
		{"github.com/go-openapi/inflect", "inflect"},
		{"example.com/my-pkg", "my_pkg"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, emit.PackageName(tt.path))
		})
	}
}
