package tickets

import (
	"strings"
	"testing"
	"time"

	v "boxoffice/internal/views"
)

func TestFilterKeepsRequestedOrder(t *testing.T) {
	all := []Ticket{{ID: 99}, {ID: 101}, {ID: 102}}

	got := Filter(all, []int64{102, 7, 101})
	if len(got) != 2 || got[0].ID != 102 || got[1].ID != 101 {
		t.Fatalf("Filter() = %+v", got)
	}
	if len(Filter(all, nil)) != 0 {
		t.Fatalf("Filter() with no ids should be empty")
	}
}

func TestOrderHistoryEmpty(t *testing.T) {
	n := OrderHistory(nil)
	if text := v.TextContent(n); !strings.Contains(text, "You haven't booked any tickets yet.") {
		t.Fatalf("empty history text = %q", text)
	}
}

func TestTicketCard(t *testing.T) {
	card := TicketCard(Ticket{
		ID:            101,
		PaymentStatus: "PAID",
		QRCode:        "data:image/png;base64,AAA",
		PurchaseDate:  time.Date(2026, 10, 1, 14, 5, 0, 0, time.UTC),
	})

	text := v.TextContent(card)
	for _, want := range []string{"Ticket #101", "PAID", "Event", "N/A", "Oct 1, 2026, 02:05 PM"} {
		if !strings.Contains(text, want) {
			t.Fatalf("card text %q missing %q", text, want)
		}
	}

	var sb strings.Builder
	if err := v.Render(&sb, card); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(sb.String(), `class="order-status paid"`) || !strings.Contains(sb.String(), `alt="QR Code"`) {
		t.Fatalf("card markup = %s", sb.String())
	}
}
