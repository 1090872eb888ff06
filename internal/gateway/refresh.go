package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"boxoffice/internal/session"
)

// Both body shapes below are produced by the backend for an unusable access
// token and both must trigger a refresh.
const (
	detailTokenNotValid = "Given token not valid for any token type"
	messageTokenExpired = "Token is expired"
)

type unauthorizedBody struct {
	Detail   string `json:"detail"`
	Messages []struct {
		Message string `json:"message"`
	} `json:"messages"`
}

// IsTokenExpired reports whether a response means the access token is
// expired or invalid, as opposed to any other 401.
func IsTokenExpired(statusCode int, body []byte) bool {
	if statusCode != http.StatusUnauthorized {
		return false
	}

	var payload unauthorizedBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	if payload.Detail == detailTokenNotValid {
		return true
	}
	return len(payload.Messages) > 0 && payload.Messages[0].Message == messageTokenExpired
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// refreshAndRetry exchanges the refresh token for a new access token and
// replays c exactly once. The retry's response is returned whatever its status.
// Any refresh failure clears the session.
func (g *Gateway) refreshAndRetry(ctx context.Context, sess session.Session, c call) (*http.Response, error) {
	g.log.InfoContext(ctx, "Token expired, attempting refresh")

	if sess.RefreshToken == "" {
		g.expire(ctx, "no refresh token")
		return nil, ErrSessionExpired
	}

	access, err := g.refresh(ctx, sess.RefreshToken)
	if err != nil {
		g.log.LogTokenRefresh(ctx, false, err.Error())
		g.expire(ctx, "refresh failed")
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	if err := g.store.Set(ctx, session.AccessToken(access)); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	g.log.LogTokenRefresh(ctx, true, "")

	return g.send(ctx, c, access)
}

func (g *Gateway) refresh(ctx context.Context, refreshToken string) (string, error) {
	c, err := g.encode(PostJSON(RefreshPath, refreshRequest{Refresh: refreshToken}))
	if err != nil {
		return "", err
	}

	resp, err := g.send(ctx, c, "")
	if err != nil {
		return "", err
	}

	var payload refreshResponse
	if err := DecodeJSON(resp, &payload); err != nil {
		return "", err
	}
	if payload.Access == "" {
		return "", ErrMalformedRefresh
	}
	return payload.Access, nil
}

func (g *Gateway) expire(ctx context.Context, reason string) {
	if err := g.store.Clear(ctx); err != nil {
		g.log.ErrorWithContext(ctx, "Failed to clear session", err, nil)
		return
	}
	g.log.LogSessionCleared(ctx, reason)
}
