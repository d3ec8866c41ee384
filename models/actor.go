package models

// Actor roles understood by the engagement core.
const (
	RoleClient  = "client"
	RoleRetiree = "retiree"
	RoleAdmin   = "admin"
)

// Actor identifies the authenticated caller of an operation. Identities are
// opaque strings resolved by the external identity service.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
