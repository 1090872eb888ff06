// Package views builds server-side pages as golang.org/x/net/html trees.
// Renderers are pure: they take fetched data and return nodes, and never
// perform I/O themselves.
package views

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// El creates an element node. Nil children are skipped.
func El(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	for _, child := range children {
		if child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

// Text creates a text node. Content is escaped on render.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Attrs builds attributes from key/value pairs
func Attrs(kv ...string) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return attrs
}

// Class is shorthand for a single class attribute
func Class(name string) []html.Attribute {
	return Attrs("class", name)
}

// Fragment groups nodes under a div that carries no semantics
func Fragment(children ...*html.Node) *html.Node {
	return El("div", nil, children...)
}

// HiddenInput is a hidden form field
func HiddenInput(name, value string) *html.Node {
	return El("input", Attrs("type", "hidden", "name", name, "value", value))
}

// PostButton renders a one-button form posting to action
func PostButton(action, label, class string, fields ...*html.Node) *html.Node {
	children := append(fields, El("button", Attrs("type", "submit", "class", class), Text(label)))
	return El("form", Attrs("method", "post", "action", action), children...)
}

// Find returns the first element in the tree with the given id
func Find(n *html.Node, id string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, id); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates every text node under n
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var out string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out += TextContent(c)
	}
	return out
}

// Render serializes a tree. Document nodes get a doctype.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}
