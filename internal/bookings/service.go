package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"boxoffice/internal/gateway"
	"boxoffice/internal/selection"
	"boxoffice/pkg/logger"
)

const ticketsPath = "/api/tickets/"

var (
	ErrEmptySelection  = errors.New("no seats selected")
	ErrSeatUnavailable = errors.New("seat is not available")
)

// Service defines the contract for booking submission
type Service interface {
	// Submit purchases seatIDs in one request. A rejected purchase returns
	// the backend's *gateway.HTTPError unchanged.
	Submit(ctx context.Context, eventID int64, seatIDs []int64) (*Confirmation, error)
	// Checkout submits the tracker's selection and clears it on success
	Checkout(ctx context.Context, tracker *selection.Tracker, eventID int64) (*Confirmation, error)
}

type service struct {
	gw  *gateway.Gateway
	log *logger.Logger
}

// NewService creates a booking service bound to the gateway's session
func NewService(gw *gateway.Gateway, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{gw: gw, log: log}
}

func (s *service) Submit(ctx context.Context, eventID int64, seatIDs []int64) (*Confirmation, error) {
	if len(seatIDs) == 0 {
		return nil, ErrEmptySelection
	}

	resp, err := s.gw.Do(ctx, gateway.PostJSON(ticketsPath, TicketRequest{EventID: eventID, SeatIDs: seatIDs}))
	if err != nil {
		return nil, err
	}

	var issued TicketResponse
	if err := gateway.DecodeJSON(resp, &issued); err != nil {
		return nil, err
	}
	if len(issued.Tickets) == 0 {
		return nil, fmt.Errorf("booking for event %d returned no tickets", eventID)
	}

	ids := make([]int64, len(issued.Tickets))
	for i, t := range issued.Tickets {
		ids[i] = t.ID
	}

	s.log.LogBookingSubmitted(ctx, eventID, len(seatIDs), ids)
	return newConfirmation(ids), nil
}

func (s *service) Checkout(ctx context.Context, tracker *selection.Tracker, eventID int64) (*Confirmation, error) {
	ids := tracker.IDs()
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	confirmation, err := s.Submit(ctx, eventID, ids)
	if err != nil {
		return nil, err
	}

	tracker.Clear()
	return confirmation, nil
}

// FailureDetail is the text shown after "Booking Failed: "
func FailureDetail(err error) string {
	var httpErr *gateway.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized {
			return "Please login to book tickets."
		}
		return httpErr.Detail()
	}
	if errors.Is(err, ErrEmptySelection) {
		return "Please select at least one seat."
	}
	var netErr *gateway.NetworkError
	if errors.As(err, &netErr) {
		return "Unable to reach the server. Please try again."
	}
	return err.Error()
}
