package domain

// User is the identity returned by the auth backend. The admin flag is
// not part of the identity itself; it is derived from the profiles
// role lookup and tracked by the auth store.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)
