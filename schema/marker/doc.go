// Package marker defines the structural markers that drive code generation
// and parses them from Go comment directives and struct tags.
//
// # Type markers
//
// A type opts into a capability with a directive in its doc comment:
//
//	//derive:compare
//	//derive:stringer includeFieldNames=false
//	type Point struct {
//	    X, Y int
//	}
//
// The exclude marker on a type turns the default-inclusion policy into
// default exclusion, so that only explicitly included members participate:
//
//	//derive:compare
//	//derive:compare.exclude
//	type Version struct { ... }
//
// # Member markers
//
// Fields use struct tags or directives in their doc comment, methods and
// package-level declarations use directives:
//
//	type User struct {
//	    ID    int    `compare:"include,rank=-1"`
//	    Email string `stringer:"include,name=mail"`
//	    hash  []byte `compare:"-" stringer:"-"`
//	}
//
//	//derive:compare.include rank=2 reverse
//	func (u User) Age() int { ... }
//
// # Options
//
//	compare                  nullsFirst, nullsLast (not implemented, warned)
//	compare.include          rank=<int>, reverse, nullsFirst, nullsLast
//	stringer                 includeFieldNames (default true), callSuper, doNotUseGetters (default true)
//	stringer.include         name=<display name>
//
// Boolean options accept "opt", "opt=true" and "opt=false". Option names are
// matched case-insensitively.
package marker
