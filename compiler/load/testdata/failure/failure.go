package failure

//derive:compare
type User struct {
	ID int
}

func broken() int {
	return
