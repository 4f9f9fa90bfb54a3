package model

// User is a registered participant. ID is a pointer because the
// create/update request leaves it empty for creation.
type User struct {
	ID      *uint64 `json:"id"`
	Name    string  `json:"name"`
	Warning string  `json:"warning,omitempty"`
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	cp := *u
	if u.ID != nil {
		id := *u.ID
		cp.ID = &id
	}
	return &cp
}
