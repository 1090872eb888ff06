package analytics

import (
	"strconv"

	"golang.org/x/net/html"

	v "boxoffice/internal/views"
)

const blank = "-"

// AnalyticsPanel renders the stat cards and the per-event table.
// A nil summary draws the panel with blank values.
func AnalyticsPanel(s *Summary) *html.Node {
	revenue, sold, total := blank, blank, blank
	if s != nil {
		revenue = v.Money(s.TotalRevenue)
		sold = strconv.Itoa(s.TotalTicketsSold)
		total = strconv.Itoa(s.TotalEvents)
	}

	panel := v.El("section", v.Attrs("id", "analytics-panel", "class", "analytics"),
		v.El("div", v.Class("stats-grid"),
			stat("total-revenue", "Total Revenue", revenue),
			stat("tickets-sold", "Tickets Sold", sold),
			stat("total-events", "Total Events", total),
		),
	)

	if s == nil || len(s.Events) == 0 {
		return panel
	}

	table := v.El("table", v.Attrs("id", "analytics-events", "class", "data-table"),
		v.El("thead", nil, v.El("tr", nil,
			th("Event"), th("Date"), th("Seats"), th("Sold"), th("Available"), th("Revenue"),
		)),
	)
	body := v.El("tbody", nil)
	for _, e := range s.Events {
		body.AppendChild(v.El("tr", nil,
			td(e.Title),
			td(e.Date.Format("Jan 2, 2006")),
			td(strconv.Itoa(e.TotalSeats)),
			td(strconv.Itoa(e.Sold)),
			td(strconv.Itoa(e.Available)),
			td(v.Money(e.Revenue)),
		))
	}
	table.AppendChild(body)
	panel.AppendChild(table)
	return panel
}

func stat(id, label, value string) *html.Node {
	return v.El("div", v.Class("stat-card"),
		v.El("span", v.Class("stat-label"), v.Text(label)),
		v.El("strong", v.Attrs("id", id, "class", "stat-value"), v.Text(value)),
	)
}

func th(s string) *html.Node { return v.El("th", nil, v.Text(s)) }
func td(s string) *html.Node { return v.El("td", nil, v.Text(s)) }
