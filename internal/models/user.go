package models

import "time"

// User represents an application user stored in the users table.
type User struct {
	ID           int64     `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"`
	Role         string    `db:"role" json:"role"`
	TeacherName  *string   `db:"teacher_name" json:"teacher_name,omitempty"`
	Unit         *string   `db:"unit" json:"unit,omitempty"`
	Active       bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user profile.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the public view of a user.
type UserInfo struct {
	ID          int64   `json:"user_id"`
	Username    string  `json:"username"`
	Role        string  `json:"role"`
	TeacherName *string `json:"teacher_name,omitempty"`
	Unit        *string `json:"unit,omitempty"`
}
