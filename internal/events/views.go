package events

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	v "boxoffice/internal/views"
)

// EventsList renders the public catalogue as cards
func EventsList(events []Event) *html.Node {
	container := v.El("div", v.Attrs("id", "events-container", "class", "events-grid"))
	if len(events) == 0 {
		container.AppendChild(v.El("div", v.Class("no-events"), v.Text("No upcoming events found.")))
		return container
	}

	for _, e := range events {
		container.AppendChild(v.El("div", v.Class("event-card"),
			eventImage(e),
			v.El("div", v.Class("event-card-content"),
				v.El("h3", v.Class("event-title"), v.Text(e.Title)),
				v.El("div", v.Class("event-date"), v.Text("📅 "+e.DisplayDate())),
				v.El("div", v.Class("event-location"), v.Text("📍 "+e.Location)),
				v.El("p", nil, v.Text(v.Truncate(e.Description, 80))),
				v.El("a", v.Attrs("href", DetailPath(e.ID), "class", "book-btn"), v.Text("View Details")),
			),
		))
	}
	return container
}

// EventDetails renders the header of the details and booking pages
func EventDetails(e *Event) *html.Node {
	return v.El("section", v.Attrs("id", "event-details", "class", "event-details"),
		eventImage(*e),
		v.El("h1", v.Attrs("id", "event-title"), v.Text(e.Title)),
		v.El("p", v.Attrs("id", "event-meta"), v.Text(fmt.Sprintf("📅 %s | 📍 %s", e.DisplayDateTime(), e.Location))),
		v.Markdown(e.Description, "event-description"),
		v.El("a", v.Attrs("href", BookingPath(e.ID), "class", "cta-btn"), v.Text("Select Seats")),
	)
}

// SeatMapView renders the seat grid. Available seats are toggle buttons
// posting to the booking page; every other status is inert.
func SeatMapView(eventID int64, seats []Seat, selected func(id int64) bool) *html.Node {
	container := v.El("div", v.Attrs("id", "seat-map", "class", "seat-map"))
	if len(seats) == 0 {
		container.AppendChild(v.El("p", v.Class("muted"), v.Text("No seats available for this event.")))
		return container
	}

	rows := SeatMap(seats)
	maxCols := 0
	for _, r := range rows {
		maxCols = max(maxCols, len(r.Seats))
	}
	container.Attr = append(container.Attr, html.Attribute{
		Key: "style", Val: fmt.Sprintf("grid-template-columns: repeat(%d, 40px)", maxCols),
	})

	toggle := BookingPath(eventID) + "toggle"
	for _, r := range rows {
		for _, s := range r.Seats {
			classes := []string{"seat", s.Status.CSSClass()}
			if s.Tier != "" {
				classes = append(classes, strings.ToLower(s.Tier.String()))
			}
			if selected != nil && selected(s.ID) {
				classes = append(classes, "selected")
			}
			title := fmt.Sprintf("Seat %s - $%s", s.Label(), s.Price.StringFixed(2))
			attrs := v.Attrs(
				"class", strings.Join(classes, " "),
				"title", title,
				"data-id", strconv.FormatInt(s.ID, 10),
				"data-price", s.Price.StringFixed(2),
				"data-label", s.Label(),
			)

			if !s.Selectable() {
				container.AppendChild(v.El("div", attrs, v.Text(s.Label())))
				continue
			}
			container.AppendChild(v.El("form", v.Attrs("method", "post", "action", toggle, "class", "seat-form"),
				v.HiddenInput("seat_id", strconv.FormatInt(s.ID, 10)),
				v.El("button", append(attrs, html.Attribute{Key: "type", Val: "submit"}), v.Text(s.Label())),
			))
		}
	}
	return container
}

// OrganizerEvents renders the dashboard's event cards with manage actions
func OrganizerEvents(events []Event) *html.Node {
	container := v.El("div", v.Attrs("id", "organizer-events", "class", "events-grid"))
	if len(events) == 0 {
		container.AppendChild(v.El("div", v.Class("no-events"),
			v.El("p", nil, v.Text("You haven't created any events yet.")),
			v.El("p", nil, v.Text(`Click "Create New Event" to get started!`)),
		))
		return container
	}

	for _, e := range events {
		container.AppendChild(v.El("div", v.Class("event-card"),
			eventImage(e),
			v.El("div", v.Class("event-card-content"),
				v.El("h3", v.Class("event-title"), v.Text(e.Title)),
				v.El("div", v.Class("event-meta"), v.Text("📅 "+e.DateTime.Format("Mon, Jan 2, 2006, 03:04 PM"))),
				v.El("div", v.Class("event-meta"), v.Text("📍 "+e.Location)),
				v.El("div", v.Class("event-actions"),
					v.El("a", v.Attrs("href", DetailPath(e.ID), "class", "icon-btn"), v.Text("View Details")),
					v.El("a", v.Attrs("href", BookingPath(e.ID), "class", "icon-btn"), v.Text("Manage Seats 🎟️")),
					v.PostButton(DeletePath(e.ID), "Delete 🗑️", "icon-btn delete-btn"),
				),
			),
		))
	}
	return container
}

// SeatsPreviewView renders the tier split under the creation form
func SeatsPreviewView(p SeatsPreview) *html.Node {
	icons := map[Tier]string{TierVIP: "💎 VIP", TierStandard: "⭐ Standard", TierEconomy: "🎫 Economy"}

	tiers := v.El("div", v.Class("preview-tiers"))
	for _, t := range p.Tiers {
		tiers.AppendChild(v.El("span", v.Attrs("id", "preview-"+strings.ToLower(t.Tier.String())),
			v.Text(icons[t.Tier]+": "),
			v.El("strong", nil, v.Text(strconv.Itoa(t.Seats))),
		))
	}

	return v.El("div", v.Attrs("id", "seats-preview", "class", "seats-preview"),
		tiers,
		v.El("div", v.Class("preview-total"),
			v.Text("Total: "),
			v.El("strong", v.Attrs("id", "preview-total-seats"), v.Text(strconv.Itoa(p.TotalSeats))),
			v.Text(" seats | Value: "),
			v.El("strong", v.Attrs("id", "preview-total-value"), v.Text(v.Money(p.TotalValue))),
		),
	)
}

// CreateEventForm renders the organizer's creation form, prefilled with req
func CreateEventForm(req CreateEventRequest) *html.Node {
	input := func(label, name, typ, value string, extra ...string) *html.Node {
		attrs := v.Attrs("type", typ, "name", name, "id", "evt-"+name, "value", value)
		attrs = append(attrs, v.Attrs(extra...)...)
		return v.El("label", nil, v.Text(label), v.El("input", attrs))
	}

	return v.El("form", v.Attrs("method", "post", "action", CreatePath, "enctype", "multipart/form-data", "id", "create-event-form"),
		v.El("h2", nil, v.Text("Create New Event")),
		input("Title", "title", "text", req.Title, "required", "required"),
		v.El("label", nil, v.Text("Description"),
			v.El("textarea", v.Attrs("name", "description", "id", "evt-description", "required", "required"), v.Text(req.Description))),
		input("Location", "location", "text", req.Location, "required", "required"),
		input("Date & Time", "date_time", "datetime-local", req.DateTime, "required", "required"),
		input("Rows", "seat_rows", "number", strconv.Itoa(req.SeatRows), "min", "1", "max", strconv.Itoa(MaxSeatRows)),
		input("Seats per Row", "seat_cols", "number", strconv.Itoa(req.SeatCols), "min", "1", "max", strconv.Itoa(MaxSeatCols)),
		input("VIP Price", "seat_price_vip", "number", req.PriceVIP, "step", "0.01"),
		input("Standard Price", "seat_price_standard", "number", req.PriceStandard, "step", "0.01"),
		input("Economy Price", "seat_price_economy", "number", req.PriceEconomy, "step", "0.01"),
		input("Venue Image", "venue_image", "file", "", "accept", "image/*"),
		SeatsPreviewView(Preview(req.SeatRows, req.SeatCols, req.Prices())),
		v.El("button", v.Attrs("type", "submit", "class", "cta-btn"), v.Text("Create Event")),
	)
}

// DefaultCreateForm carries the values the form starts with
func DefaultCreateForm() CreateEventRequest {
	return CreateEventRequest{
		SeatRows:      6,
		SeatCols:      10,
		PriceVIP:      "150",
		PriceStandard: "100",
		PriceEconomy:  "50",
	}
}

func eventImage(e Event) *html.Node {
	if e.VenueImage == "" {
		return v.El("div", v.Class("event-image-placeholder"))
	}
	return v.El("img", v.Attrs("class", "event-image", "src", e.VenueImage, "alt", e.Title))
}
