package bookings

// TicketRequest is the bulk purchase payload of /api/tickets/
type TicketRequest struct {
	EventID int64   `json:"event_id"`
	SeatIDs []int64 `json:"seat_ids"`
}

// ToggleRequest is posted by a seat button or the JSON seat map
type ToggleRequest struct {
	SeatID int64 `json:"seat_id" form:"seat_id" binding:"required"`
}
