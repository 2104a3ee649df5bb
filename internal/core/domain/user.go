package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an operator account of the hotel service. Password is only sent on
// create and never returned by the API.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

func (u User) EntityID() int64 { return u.ID }

// ToggledRole returns the role the user flips to on a role toggle.
func (u User) ToggledRole() string {
	if u.Role == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}
