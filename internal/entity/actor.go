package entity

// Actor is whoever issues a request. The zero value is the anonymous actor.
type Actor struct {
	ID       uint
	Username string
}

var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool {
	return a.ID != 0
}

// Is reports whether the actor is the given user.
func (a Actor) Is(u User) bool {
	return a.IsAuthenticated() && a.ID == u.ID
}
