//go:build !hidegroups

package buildflags

// Group is only visible without the hidegroups tag.
//
//derive:stringer
type Group struct {
	Name string
}
