package views

import (
	"golang.org/x/net/html"

	"boxoffice/internal/navigation"
)

const SiteName = "EventTicketing"

// Layout wraps body in the site chrome with the given navigation links
func Layout(title string, links navigation.LinkSet, body ...*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	pageTitle := SiteName
	if title != "" {
		pageTitle = title + " | " + SiteName
	}

	head := El("head", nil,
		El("meta", Attrs("charset", "utf-8")),
		El("meta", Attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
		El("title", nil, Text(pageTitle)),
		El("link", Attrs("rel", "stylesheet", "href", "/static/css/style.css")),
	)

	main := El("main", Attrs("class", "container", "id", "content"), body...)

	doc.AppendChild(El("html", Attrs("lang", "en"), head, El("body", nil, Nav(links), main)))
	return doc
}

// Nav renders the header bar. Links appear in the order given.
func Nav(links navigation.LinkSet) *html.Node {
	items := El("div", Class("nav-links"))
	for _, l := range links {
		if l.Href == navigation.LogoutPath {
			// logout mutates state, so it is a form
			items.AppendChild(El("form", Attrs("method", "post", "action", l.Href, "class", "inline"),
				El("button", Attrs("type", "submit", "id", l.ID, "class", "btn btn-link"), Text(l.Label))))
			continue
		}
		items.AppendChild(El("a", Attrs("href", l.Href, "id", l.ID), Text(l.Label)))
	}

	return El("nav", Class("navbar"),
		El("a", Attrs("href", navigation.HomePath, "class", "brand"), Text(SiteName)),
		items,
	)
}

// ErrorMessage is the inline failure notice used by every page
func ErrorMessage(msg string) *html.Node {
	return El("p", Attrs("class", "error-message", "role", "alert"), Text(msg))
}

// Message is an inline informational notice
func Message(msg string) *html.Node {
	return El("p", Class("info-message"), Text(msg))
}

// Heading is a page title
func Heading(s string) *html.Node {
	return El("h1", nil, Text(s))
}
