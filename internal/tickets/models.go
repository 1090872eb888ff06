package tickets

import (
	"strings"
	"time"
)

// Ticket is one purchased seat as listed in the order history
type Ticket struct {
	ID            int64     `json:"id"`
	EventTitle    string    `json:"event_title"`
	SeatLabel     string    `json:"seat_label"`
	PaymentStatus string    `json:"payment_status"`
	TransactionID string    `json:"transaction_id"`
	QRCode        string    `json:"qr_code"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

// StatusClass is the lower-cased payment status used for styling
func (t Ticket) StatusClass() string {
	return strings.ToLower(t.PaymentStatus)
}

// Filter keeps the tickets whose id is in ids, in the order of ids
func Filter(all []Ticket, ids []int64) []Ticket {
	byID := make(map[int64]Ticket, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	out := make([]Ticket, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
