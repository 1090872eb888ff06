package auth

import "boxoffice/internal/session"

// token pair issued by the backend
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// represents the current user as reported by the backend
type UserResponse struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        session.Role `json:"role"`
	IsStaff     bool         `json:"is_staff"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	PhoneNumber string       `json:"phone_number"`
}

// outcome of a successful login
type LoginResult struct {
	User        *UserResponse
	LandingPath string
}
