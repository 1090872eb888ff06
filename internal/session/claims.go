package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrNoToken = errors.New("no access token")

// Claims is the display-only view of an access token
type Claims struct {
	UserID    string
	TokenType string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp has passed at now
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes token claims without verifying the signature.
// The backend is the only party that validates tokens.
func ParseClaims(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrNoToken
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("malformed access token: %w", err)
	}

	var c Claims
	switch v := mapClaims["user_id"].(type) {
	case float64:
		c.UserID = strconv.FormatInt(int64(v), 10)
	case string:
		c.UserID = v
	}
	if tt, ok := mapClaims["token_type"].(string); ok {
		c.TokenType = tt
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return c, nil
}
