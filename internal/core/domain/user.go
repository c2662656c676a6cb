package domain

import "time"

// Role is the binary authorization role carried by a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// RoleFromStaff maps the token's is_staff claim onto a Role.
func RoleFromStaff(isStaff bool) Role {
	if isStaff {
		return RoleAdmin
	}
	return RoleMember
}

// Identity is the authenticated actor derived from a decoded session token.
// It is never persisted directly.
type Identity struct {
	Username     string
	Role         Role
	SessionToken string
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Credentials is the token pair returned by the login endpoint.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Registration carries the sign-up form. Confirmation must equal Password.
type Registration struct {
	Username     string `json:"username"  validate:"required,min=3"`
	Email        string `json:"email"     validate:"required,email"`
	Password     string `json:"password1" validate:"required,min=8"`
	Confirmation string `json:"password2" validate:"required,eqfield=Password"`
}

// User is an account held by the development backend.
type User struct {
	ID           int64     `json:"pk" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsStaff      bool      `json:"is_staff" bson:"is_staff"`
	CreatedAt    time.Time `json:"-" bson:"created_at"`
}
