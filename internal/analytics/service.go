package analytics

import (
	"context"
	"errors"

	"boxoffice/internal/gateway"
	"boxoffice/pkg/logger"
)

const analyticsPath = "/api/events/analytics/"

// Service defines the analytics service interface
type Service interface {
	// Get returns the summary or the upstream error
	Get(ctx context.Context) (*Summary, error)
	// Panel returns the summary, or nil when it cannot be loaded. The only
	// error it reports is gateway.ErrSessionExpired.
	Panel(ctx context.Context) (*Summary, error)
}

type service struct {
	gw  *gateway.Gateway
	log *logger.Logger
}

// NewService creates a new analytics service instance
func NewService(gw *gateway.Gateway, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{gw: gw, log: log}
}

func (s *service) Get(ctx context.Context) (*Summary, error) {
	resp, err := s.gw.Do(ctx, gateway.Get(analyticsPath))
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := gateway.DecodeJSON(resp, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Panel swallows fetch failures and the dashboard shows a blank panel.
// An expired session is passed up so the caller can redirect to login.
func (s *service) Panel(ctx context.Context) (*Summary, error) {
	summary, err := s.Get(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrSessionExpired) {
			return nil, err
		}
		s.log.WarnContext(ctx, "Analytics unavailable", "error", err.Error())
		return nil, nil
	}
	return summary, nil
}
