package events

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"boxoffice/internal/selection"
)

type Event struct {
	ID          int64     `json:"id"`
	Organizer   string    `json:"organizer"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	DateTime    time.Time `json:"date_time"`
	VenueImage  string    `json:"venue_image"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayDate is the short date shown on cards and tables
func (e Event) DisplayDate() string {
	return e.DateTime.Format("Mon, Jan 2, 2006")
}

// DisplayDateTime is the long form used on the details page
func (e Event) DisplayDateTime() string {
	return e.DateTime.Format("Monday, January 2, 2006 at 3:04 PM")
}

type Seat struct {
	ID         int64           `json:"id"`
	Event      int64           `json:"event"`
	RowLabel   string          `json:"row_label"`
	SeatNumber string          `json:"seat_number"`
	Status     SeatStatus      `json:"status"`
	Tier       Tier            `json:"tier"`
	Price      decimal.Decimal `json:"price"`
	X          float64         `json:"x_coordinate"`
	Y          float64         `json:"y_coordinate"`
}

// Label is the row label followed by the seat number, e.g. "A12"
func (s Seat) Label() string {
	return s.RowLabel + s.SeatNumber
}

// Selectable reports whether the seat may be added to a selection
func (s Seat) Selectable() bool {
	return s.Status.IsSelectable()
}

// Selection converts the seat into a tracker entry
func (s Seat) Selection() selection.SelectedSeat {
	return selection.SelectedSeat{ID: s.ID, Price: s.Price, Label: s.Label()}
}

// Row is one row of the seat map
type Row struct {
	Label string
	Seats []Seat
}

// SeatMap groups seats into rows sorted by label, each row ordered by
// numeric seat number
func SeatMap(seats []Seat) []Row {
	byRow := make(map[string][]Seat)
	for _, s := range seats {
		byRow[s.RowLabel] = append(byRow[s.RowLabel], s)
	}

	labels := make([]string, 0, len(byRow))
	for label := range byRow {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([]Row, 0, len(labels))
	for _, label := range labels {
		rowSeats := byRow[label]
		sort.SliceStable(rowSeats, func(i, j int) bool {
			return seatNumber(rowSeats[i]) < seatNumber(rowSeats[j])
		})
		rows = append(rows, Row{Label: label, Seats: rowSeats})
	}
	return rows
}

// FindSeat returns the seat with the given id
func FindSeat(seats []Seat, id int64) (Seat, bool) {
	for _, s := range seats {
		if s.ID == id {
			return s, true
		}
	}
	return Seat{}, false
}

func seatNumber(s Seat) int {
	n, err := strconv.Atoi(s.SeatNumber)
	if err != nil {
		return 0
	}
	return n
}

// CreateEventRequest carries the organizer's creation form
type CreateEventRequest struct {
	Title         string `form:"title" validate:"required,max=255"`
	Description   string `form:"description" validate:"required"`
	Location      string `form:"location" validate:"required,max=255"`
	DateTime      string `form:"date_time" validate:"required"`
	SeatRows      int    `form:"seat_rows" validate:"min=1,max=26"`
	SeatCols      int    `form:"seat_cols" validate:"min=1,max=100"`
	PriceVIP      string `form:"seat_price_vip" validate:"omitempty,numeric"`
	PriceStandard string `form:"seat_price_standard" validate:"omitempty,numeric"`
	PriceEconomy  string `form:"seat_price_economy" validate:"omitempty,numeric"`

	VenueImage *Upload `form:"-"`
}

// Upload is an optional file attached to the creation form
type Upload struct {
	Filename string
	Data     []byte
}

type CreateEventResponse struct {
	Event
	SeatsCreated int `json:"seats_created"`
}
