package bookings

import "boxoffice/internal/selection"

// TicketResponse is the backend's answer to a bulk purchase
type TicketResponse struct {
	Count   int            `json:"count"`
	Tickets []IssuedTicket `json:"tickets"`
}

type IssuedTicket struct {
	ID int64 `json:"id"`
}

// ToggleResponse is returned to JSON callers of the toggle endpoint
type ToggleResponse struct {
	SeatID       int64             `json:"seat_id"`
	Selected     bool              `json:"selected"`
	Summary      selection.Summary `json:"summary"`
	DisplayTotal string            `json:"display_total"`
}
