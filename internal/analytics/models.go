package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the organizer's sales overview
type Summary struct {
	TotalEvents      int             `json:"total_events"`
	TotalTicketsSold int             `json:"total_tickets_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	Events           []EventStats    `json:"events"`
}

// EventStats is the per-event breakdown row
type EventStats struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Date       time.Time       `json:"date"`
	TotalSeats int             `json:"total_seats"`
	Sold       int             `json:"sold"`
	Available  int             `json:"available"`
	Revenue    decimal.Decimal `json:"revenue"`
}
