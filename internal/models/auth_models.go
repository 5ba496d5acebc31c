package models

// Roles recognised by the API.
const (
	RoleAdmin = "Admin"
	RoleStaff = "Staff"
)

// User is a shop operator account. Accounts are configured at startup.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never sent in JSON responses
	Role         string `json:"role"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
	User        User   `json:"user"`
}
