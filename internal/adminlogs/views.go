package adminlogs

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	v "boxoffice/internal/views"
)

// AdminLogs renders the audit trail table
func AdminLogs(logs []ActionLog) *html.Node {
	if len(logs) == 0 {
		return v.El("p", v.Attrs("id", "logs-empty", "class", "muted"), v.Text("No actions recorded yet."))
	}

	body := v.El("tbody", nil)
	for _, l := range logs {
		body.AppendChild(v.El("tr", nil,
			v.El("td", nil, v.Text(strconv.FormatInt(l.ID, 10))),
			v.El("td", nil, v.Text(l.User)),
			v.El("td", nil, v.El("span", v.Class("badge "+strings.ToLower(l.Action)), v.Text(l.Action))),
			v.El("td", nil, v.Text(l.Details)),
			v.El("td", nil, v.Text(l.Timestamp.Format("Jan 2, 2006 15:04:05"))),
		))
	}

	return v.El("table", v.Attrs("id", "logs-table", "class", "data-table"),
		v.El("thead", nil, v.El("tr", nil,
			v.El("th", nil, v.Text("ID")),
			v.El("th", nil, v.Text("User")),
			v.El("th", nil, v.Text("Action")),
			v.El("th", nil, v.Text("Details")),
			v.El("th", nil, v.Text("Time")),
		)),
		body,
	)
}
