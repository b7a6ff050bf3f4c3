package auth

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHR        Role = "hr"
	RoleFinance   Role = "finance"
	RoleQHSE      Role = "qhse"
	RoleMarketing Role = "marketing"
	RoleViewer    Role = "viewer"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleFinance, RoleQHSE, RoleMarketing, RoleViewer}
}

// User is the domain representation of an authenticated user.
// It mirrors the users table and should not include JSON annotations so it
// can be reused by different presentation layers.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest contains user registration data supplied by callers.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// LoginRequest contains user login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
