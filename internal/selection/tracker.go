package selection

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// SelectedSeat is one entry of the running selection
type SelectedSeat struct {
	ID    int64           `json:"id"`
	Price decimal.Decimal `json:"price"`
	Label string          `json:"label"`
}

// Summary is derived from the selection on every read
type Summary struct {
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Labels string          `json:"labels"`
}

// DisplayTotal rounds the total to cents. The stored total is never rounded.
func (s Summary) DisplayTotal() string {
	return s.Total.StringFixed(2)
}

// State reports the outcome of a toggle
type State struct {
	Selected bool    `json:"selected"`
	Summary  Summary `json:"summary"`
}

// Tracker keeps the chosen seats in insertion order with at most one entry
// per seat id. It does not know seat status: callers must only toggle seats
// that were AVAILABLE when shown.
type Tracker struct {
	mu    sync.Mutex
	seats []SelectedSeat
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Toggle removes the seat if selected, otherwise appends it
func (t *Tracker) Toggle(seat SelectedSeat) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	selected := true
	if i := t.indexOf(seat.ID); i >= 0 {
		t.seats = append(t.seats[:i], t.seats[i+1:]...)
		selected = false
	} else {
		t.seats = append(t.seats, seat)
	}
	return State{Selected: selected, Summary: t.summary()}
}

// Contains reports whether the seat id is selected
func (t *Tracker) Contains(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.indexOf(id) >= 0
}

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary()
}

// Seats returns a copy of the selection in display order
func (t *Tracker) Seats() []SelectedSeat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SelectedSeat(nil), t.seats...)
}

// IDs returns the selected seat ids in display order
func (t *Tracker) IDs() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int64, len(t.seats))
	for i, s := range t.seats {
		ids[i] = s.ID
	}
	return ids
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seats = nil
}

func (t *Tracker) indexOf(id int64) int {
	for i, s := range t.seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) summary() Summary {
	total := decimal.Zero
	labels := make([]string, len(t.seats))
	for i, s := range t.seats {
		total = total.Add(s.Price)
		labels[i] = s.Label
	}
	return Summary{
		Count:  len(t.seats),
		Total:  total,
		Labels: strings.Join(labels, ", "),
	}
}
