package session

import (
	"fmt"
	"log/slog"
)

// Role is the account role reported by the auth API
type Role string

const (
	RoleAttendee  Role = "ATTENDEE"
	RoleOrganizer Role = "ORGANIZER"
)

// IsValid checks if the role is one the client knows about
func (r Role) IsValid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Session is the persisted client credential state. Empty strings mean absent.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Role         Role   `json:"user_role,omitempty"`
	IsStaff      bool   `json:"is_staff,omitempty"`
}

// Authenticated reports whether an access token is present
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Apply returns a copy of s with every non-nil field of p written over it
func (s Session) Apply(p Patch) Session {
	if p.AccessToken != nil {
		s.AccessToken = *p.AccessToken
	}
	if p.RefreshToken != nil {
		s.RefreshToken = *p.RefreshToken
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.IsStaff != nil {
		s.IsStaff = *p.IsStaff
	}
	return s
}

// String never prints token material
func (s Session) String() string {
	return fmt.Sprintf("Session{authenticated=%t refresh=%t role=%s staff=%t}",
		s.Authenticated(), s.RefreshToken != "", s.Role, s.IsStaff)
}

// LogValue keeps tokens out of structured logs
func (s Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("authenticated", s.Authenticated()),
		slog.Bool("has_refresh", s.RefreshToken != ""),
		slog.String("role", string(s.Role)),
		slog.Bool("is_staff", s.IsStaff),
	)
}

// Patch is a partial Session update
type Patch struct {
	AccessToken  *string
	RefreshToken *string
	Role         *Role
	IsStaff      *bool
}

// Tokens builds a patch that stores an access/refresh pair
func Tokens(access, refresh string) Patch {
	return Patch{AccessToken: &access, RefreshToken: &refresh}
}

// AccessToken builds a patch that only replaces the access token
func AccessToken(access string) Patch {
	return Patch{AccessToken: &access}
}

// Profile builds a patch that stores role and staff flag
func Profile(role Role, isStaff bool) Patch {
	return Patch{Role: &role, IsStaff: &isStaff}
}
