package buildflags

// User is always visible.
//
//derive:stringer
type User struct {
	Name string
}
