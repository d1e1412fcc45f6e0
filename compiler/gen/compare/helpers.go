package compare

import (
	"github.com/syssam/derive/compiler/emit"
	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/load"
)

// helperOrder fixes the order in which natural-order helpers are emitted.
var helperOrder = []load.ValueClass{
	load.ValueInt,
	load.ValueUint,
	load.ValueFloat,
	load.ValueString,
	load.ValueBool,
	load.ValueAny,
}

var conversions = map[load.ValueClass]string{
	load.ValueInt:    "int64",
	load.ValueUint:   "uint64",
	load.ValueFloat:  "float64",
	load.ValueString: "string",
	load.ValueBool:   "bool",
}

var suffixes = map[load.ValueClass]string{
	load.ValueInt:    "Int",
	load.ValueUint:   "Uint",
	load.ValueFloat:  "Float",
	load.ValueString: "String",
	load.ValueBool:   "Bool",
	load.ValueAny:    "Value",
}

// helperName returns the private helper comparing values of a class,
// e.g. "deriveCompareUserInt".
func helperName(t *gen.Type, class load.ValueClass) string {
	return "deriveCompare" + t.ExportedName() + suffixes[class]
}

var helpers = map[load.ValueClass]func(u *gen.Unit, name string){
	load.ValueInt:    ordered("int64"),
	load.ValueUint:   ordered("uint64"),
	load.ValueString: ordered("string"),
	load.ValueFloat:  floatHelper,
	load.ValueBool:   boolHelper,
	load.ValueAny:    valueHelper,
}

func ordered(typ string) func(u *gen.Unit, name string) {
	return func(u *gen.Unit, name string) {
		u.Write("func ", name, "(a, b ", typ, ") int {")
		writeOrder(u, "a", "b")
		u.Write("}")
	}
}

func writeOrder(u *gen.Unit, a, b string) {
	u.Write("switch {")
	u.Write("case ", a, " < ", b, ":")
	u.Write("return -1")
	u.Write("case ", a, " > ", b, ":")
	u.Write("return 1")
	u.Write("}")
	u.Write("return 0")
}

// floatHelper orders NaN before every other value and equal to itself.
func floatHelper(u *gen.Unit, name string) {
	isNaN := emit.Ref("math", "IsNaN")
	u.Write("func ", name, "(a, b float64) int {")
	u.Write("aNaN, bNaN := ", isNaN, "(a), ", isNaN, "(b)")
	u.Write("switch {")
	u.Write("case aNaN && bNaN:")
	u.Write("return 0")
	u.Write("case aNaN:")
	u.Write("return -1")
	u.Write("case bNaN:")
	u.Write("return 1")
	u.Write("}")
	writeOrder(u, "a", "b")
	u.Write("}")
}

func boolHelper(u *gen.Unit, name string) {
	u.Write("func ", name, "(a, b bool) int {")
	u.Write("switch {")
	u.Write("case a == b:")
	u.Write("return 0")
	u.Write("case !a:")
	u.Write("return -1")
	u.Write("}")
	u.Write("return 1")
	u.Write("}")
}

// valueHelper compares values whose type is only known at run time.
// Equal values compare as 0; otherwise both must be of an ordered kind, and
// anything else panics.
func valueHelper(u *gen.Unit, name string) {
	valueOf := emit.Ref("reflect", "ValueOf")
	stringKind := emit.Ref("reflect", "String")
	boolKind := emit.Ref("reflect", "Bool")
	u.Write("func ", name, "(first, second any) int {")
	u.Write("a, b := ", valueOf, "(first), ", valueOf, "(second)")
	u.Write("if !a.IsValid() || !b.IsValid() {")
	u.Write("if a.IsValid() == b.IsValid() {")
	u.Write("return 0")
	u.Write("}")
	u.Write("panic(", emit.Ref("fmt", "Sprintf"), `("derive: cannot compare %T with %T", first, second))`)
	u.Write("}")
	u.Write("if a.Type() == b.Type() && a.Comparable() && a.Equal(b) {")
	u.Write("return 0")
	u.Write("}")
	u.Write("switch {")
	u.Write("case a.CanInt() && b.CanInt():")
	u.Write("x, y := a.Int(), b.Int()")
	writeOrder(u, "x", "y")
	u.Write("case a.CanUint() && b.CanUint():")
	u.Write("x, y := a.Uint(), b.Uint()")
	writeOrder(u, "x", "y")
	u.Write("case a.CanFloat() && b.CanFloat():")
	u.Write("x, y := a.Float(), b.Float()")
	writeOrder(u, "x", "y")
	u.Write("case a.Kind() == ", stringKind, " && b.Kind() == ", stringKind, ":")
	u.Write("x, y := a.String(), b.String()")
	writeOrder(u, "x", "y")
	u.Write("case a.Kind() == ", boolKind, " && b.Kind() == ", boolKind, ":")
	u.Write("if a.Bool() == b.Bool() {")
	u.Write("return 0")
	u.Write("}")
	u.Write("if !a.Bool() {")
	u.Write("return -1")
	u.Write("}")
	u.Write("return 1")
	u.Write("}")
	u.Write("panic(", emit.Ref("fmt", "Sprintf"), `("derive: %T and %T are not mutually comparable", first, second))`)
	u.Write("}")
}
