package typeerror

//derive:stringer
type User struct {
	ID   int
	Name string
}

func (u *User) String() string { return FormatUser(u) }

func broken() int {
	return "not an int"
}
