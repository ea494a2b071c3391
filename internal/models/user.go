package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleStaff      UserRole = "STAFF"
)

// Roles lists every assignable role for the admin UI dropdown.
func Roles() []UserRole {
	return []UserRole{RoleSuperAdmin, RoleAdmin, RoleStaff}
}

// User represents an application user stored in the users table.
type User struct {
	ID             string     `db:"id" json:"id"`
	UserName       string     `db:"user_name" json:"userName"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	PhoneNumber    string     `db:"phone_number" json:"phoneNumber"`
	Role           UserRole   `db:"role" json:"role"`
	EmailConfirmed bool       `db:"email_confirmed" json:"emailConfirmed"`
	Active         bool       `db:"active" json:"active"`
	LastLogin      *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
