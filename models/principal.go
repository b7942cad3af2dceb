package models

// Role is the caller category resolved from the auth token.
type Role string

const (
	RoleRequester Role = "requester"
	RoleProvider  Role = "provider"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated caller: identity plus role. The booking
// service never issues or stores credentials; it only consumes this pair.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
