package entity

// UserAuth is the authenticated caller resolved from the bearer token.
// It is placed on the request context once by the authenticate middleware
// and passed down explicitly; nothing below the middleware re-reads
// credentials ad hoc.
type UserAuth struct {
	Username string `json:"username" bson:"username"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Role     string `json:"role" bson:"role"`
}

// IsSuperadmin checks if the caller may use superadmin operations,
// including the wizard fast-track bypass.
func (u *UserAuth) IsSuperadmin() bool {
	return u != nil && u.Role == SuperadminRole
}
