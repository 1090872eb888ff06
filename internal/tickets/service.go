package tickets

import (
	"context"

	"boxoffice/internal/gateway"
)

const ticketsPath = "/api/tickets/"

type Service interface {
	List(ctx context.Context) ([]Ticket, error)
}

type service struct {
	gw *gateway.Gateway
}

func NewService(gw *gateway.Gateway) Service {
	return &service{gw: gw}
}

// List returns the current user's tickets
func (s *service) List(ctx context.Context) ([]Ticket, error) {
	resp, err := s.gw.Do(ctx, gateway.Get(ticketsPath))
	if err != nil {
		return nil, err
	}

	var tickets []Ticket
	if err := gateway.DecodeJSON(resp, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}
