package identity

import "time"

// User is an End User account. PasswordHash never serializes.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	PassportNumber string    `json:"passport_number"`
	Residence      string    `json:"residence"`
	IsVerified     bool      `json:"is_verified"`
	VerifyToken    string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Admin is a back-office account. Only superadmins may create admins or
// list them.
type Admin struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	IsActive     bool       `json:"is_active"`
	IsSuperAdmin bool       `json:"is_superadmin"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RegisterUserParams carries the registration input after transport-level
// validation.
type RegisterUserParams struct {
	Email          string
	Password       string
	FullName       string
	Phone          string
	PassportNumber string
	Residence      string
}

// CreateAdminParams carries superadmin-initiated admin creation input.
type CreateAdminParams struct {
	Email      string
	Password   string
	FullName   string
	SuperAdmin bool
}

// ProfilePatch applies partial profile updates; nil fields are left
// unchanged.
type ProfilePatch struct {
	FullName       *string `json:"full_name"`
	Phone          *string `json:"phone"`
	PassportNumber *string `json:"passport_number"`
	Residence      *string `json:"residence"`
}
