package bookings

import (
	"fmt"

	"golang.org/x/net/html"

	"boxoffice/internal/events"
	"boxoffice/internal/navigation"
	"boxoffice/internal/selection"
	"boxoffice/internal/tickets"
	v "boxoffice/internal/views"
)

// BookingSummary renders the running selection and the confirm button
func BookingSummary(eventID int64, s selection.Summary) *html.Node {
	labels := "None"
	if s.Count > 0 {
		labels = s.Labels
	}

	label := "Book Now"
	if s.Count > 0 {
		label = fmt.Sprintf("Book %d Seat(s)", s.Count)
	}

	confirm := v.El("form", v.Attrs("method", "post", "action", events.BookingPath(eventID)+"confirm", "id", "confirm-form"))
	button := v.El("button", v.Attrs("type", "submit", "id", "confirm-booking", "class", "cta-btn"), v.Text(label))
	if s.Count == 0 {
		button.Attr = append(button.Attr, html.Attribute{Key: "disabled", Val: "disabled"})
	}
	confirm.AppendChild(button)

	summary := v.El("aside", v.Attrs("id", "booking-summary", "class", "booking-summary"),
		v.El("h3", nil, v.Text("Your Selection")),
		v.El("p", nil, v.Text("Seats: "), v.El("span", v.Attrs("id", "selected-seat-label"), v.Text(labels))),
		v.El("p", nil, v.Text("Total: "), v.El("span", v.Attrs("id", "total-price"), v.Text("$"+s.DisplayTotal()))),
		confirm,
	)
	if s.Count > 0 {
		summary.AppendChild(v.PostButton(events.BookingPath(eventID)+"clear", "Clear Selection", "btn btn-link"))
	}
	return summary
}

// BookingPage is the event header, the seat map and the summary side by side
func BookingPage(event *events.Event, seats []events.Seat, tracker *selection.Tracker, errMsg string) []*html.Node {
	nodes := []*html.Node{events.EventDetails(event)}
	if errMsg != "" {
		nodes = append(nodes, v.ErrorMessage(errMsg))
	}
	nodes = append(nodes,
		v.El("div", v.Class("seat-legend"),
			legend("available", "Available"),
			legend("selected", "Selected"),
			legend("reserved", "Reserved"),
			legend("sold", "Sold"),
		),
		v.El("div", v.Class("booking-layout"),
			v.El("div", v.Class("screen"), v.Text("STAGE")),
			events.SeatMapView(event.ID, seats, tracker.Contains),
			BookingSummary(event.ID, tracker.Summary()),
		),
	)
	return nodes
}

// ConfirmationView lists the tickets that were just issued
func ConfirmationView(issued []tickets.Ticket) *html.Node {
	box := v.El("section", v.Attrs("id", "confirmation", "class", "confirmation"),
		v.El("h1", nil, v.Text("Booking Confirmed!")),
	)
	if len(issued) == 0 {
		box.AppendChild(v.Message("Your tickets are being processed."))
	} else {
		list := v.El("div", v.Attrs("id", "confirmed-tickets", "class", "orders-grid"))
		for _, t := range issued {
			list.AppendChild(tickets.TicketCard(t))
		}
		box.AppendChild(list)
	}
	box.AppendChild(v.El("div", v.Class("confirmation-actions"),
		v.El("a", v.Attrs("href", navigation.OrdersPath, "class", "cta-btn"), v.Text("View My Orders")),
		v.El("a", v.Attrs("href", navigation.HomePath, "class", "btn btn-link"), v.Text("Browse Events")),
	))
	return box
}

func legend(class, label string) *html.Node {
	return v.El("span", v.Class("legend-item"),
		v.El("span", v.Class("seat "+class)),
		v.Text(label),
	)
}
