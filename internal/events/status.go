package events

// SeatStatus represents the booking state of a seat
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatSold      SeatStatus = "SOLD"
	SeatBooked    SeatStatus = "BOOKED"
)

// IsSelectable checks if a seat in this status can be picked
func (s SeatStatus) IsSelectable() bool {
	return s == SeatAvailable
}

// CSSClass is the class the seat map uses for this status
func (s SeatStatus) CSSClass() string {
	switch s {
	case SeatAvailable:
		return "available"
	case SeatReserved:
		return "reserved"
	default:
		return "sold"
	}
}

// Tier is the pricing tier of a seat
type Tier string

const (
	TierVIP      Tier = "VIP"
	TierStandard Tier = "STANDARD"
	TierEconomy  Tier = "ECONOMY"
)

// String returns the string representation of Tier
func (t Tier) String() string {
	return string(t)
}
