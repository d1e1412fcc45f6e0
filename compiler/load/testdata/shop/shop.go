package shop

// Point is a plain point.
//
//derive:compare
//derive:stringer
type Point struct {
	X int
	Y string
}

// User is a customer.
//
//derive:compare
//derive:stringer includeFieldNames=false
type User struct {
	ID    int64  `compare:"include,rank=-1"`
	Name  string `stringer:"include,name=full"`
	email string `compare:"-" stringer:"exclude"`
	Base
	Score Score
	Rate  float32
	Tags  []string
	// Nick is shown nowhere.
	//derive:stringer.exclude
	Nick string
	_    int
}

// Base is embedded into User.
type Base struct {
	Created uint
}

// Score compares through its own method.
type Score int

// Compare orders scores descending.
func (s Score) Compare(o Score) int {
	switch {
	case s > o:
		return -1
	case s < o:
		return 1
	}
	return 0
}

// Age is a computed member.
//
//derive:compare.include rank=2 reverse
func (u User) Age() int { return int(u.ID % 100) }

// Greeting takes an argument.
func (u *User) Greeting(prefix string) string { return prefix + u.Name }

// Admin is a well-known user.
//
//derive:stringer.include
var Admin = User{ID: 1, Name: "admin"}

// NewUser creates a user.
func NewUser(name string) *User { return &User{Name: name} }

// Broken has an invalid marker option.
//
//derive:compare nullsFirst=maybe
type Broken struct{}

// Box is generic.
//
//derive:stringer
type Box[T any] struct {
	V T
}

// Bad tries to include a type.
//
//derive:compare.include
type Bad struct{}

// Plain has no markers.
type Plain struct {
	A int
}

// Celsius is a named float.
//
//derive:stringer
type Celsius float64

// String is an accessor of a non-struct type.
func (c Celsius) String() string { return "" }
