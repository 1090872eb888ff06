package adminlogs

import (
	"context"
	"errors"
	"net/http"

	"boxoffice/internal/gateway"
)

const logsPath = "/admin-logs/api/"

var ErrForbidden = errors.New("you do not have permission to view the action logs")

type Service interface {
	List(ctx context.Context) ([]ActionLog, error)
}

type service struct {
	gw *gateway.Gateway
}

func NewService(gw *gateway.Gateway) Service {
	return &service{gw: gw}
}

// List returns the action log, newest first as ordered by the backend
func (s *service) List(ctx context.Context) ([]ActionLog, error) {
	resp, err := s.gw.Do(ctx, gateway.Get(logsPath))
	if err != nil {
		return nil, err
	}

	var logs []ActionLog
	if err := gateway.DecodeJSON(resp, &logs); err != nil {
		if gateway.IsHTTPStatus(err, http.StatusForbidden) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return logs, nil
}
