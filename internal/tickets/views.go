package tickets

import (
	"fmt"

	"golang.org/x/net/html"

	"boxoffice/internal/navigation"
	v "boxoffice/internal/views"
)

// OrderHistory renders the user's tickets as cards
func OrderHistory(tickets []Ticket) *html.Node {
	container := v.El("div", v.Attrs("id", "orders-container", "class", "orders-grid"))
	if len(tickets) == 0 {
		container.AppendChild(v.El("div", v.Class("no-orders"),
			v.El("p", nil, v.Text("You haven't booked any tickets yet.")),
			v.El("a", v.Attrs("href", navigation.HomePath, "class", "cta-btn"), v.Text("Browse Events")),
		))
		return container
	}

	for _, t := range tickets {
		container.AppendChild(TicketCard(t))
	}
	return container
}

// TicketCard renders a single ticket
func TicketCard(t Ticket) *html.Node {
	title := t.EventTitle
	if title == "" {
		title = "Event"
	}
	seat := t.SeatLabel
	if seat == "" {
		seat = "N/A"
	}

	card := v.El("div", v.Class("order-card"),
		v.El("div", v.Class("order-header"),
			v.El("span", v.Class("order-id"), v.Text(fmt.Sprintf("Ticket #%d", t.ID))),
			v.El("span", v.Class("order-status "+t.StatusClass()), v.Text(t.PaymentStatus)),
		),
		v.El("div", v.Class("order-details"),
			v.El("h3", nil, v.Text(title)),
			v.El("p", nil, v.Text("Seat: "), v.El("strong", nil, v.Text(seat))),
			v.El("p", nil, v.Text("Booked: "+t.PurchaseDate.Format("Jan 2, 2006, 03:04 PM"))),
		),
	)
	if t.QRCode != "" {
		card.AppendChild(v.El("div", v.Class("order-qr"),
			v.El("img", v.Attrs("src", t.QRCode, "alt", "QR Code"))))
	}
	return card
}
