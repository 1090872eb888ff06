package views

import (
	"bytes"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// raw HTML in the source is omitted, WithUnsafe is not set
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown renders organizer-written text into a div with the given class.
// If conversion fails the source is shown as plain text.
func Markdown(src, class string) *html.Node {
	div := El("div", Class(class))

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		div.AppendChild(El("p", nil, Text(src)))
		return div
	}

	nodes, err := html.ParseFragment(&buf, &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div})
	if err != nil {
		div.AppendChild(El("p", nil, Text(src)))
		return div
	}
	for _, n := range nodes {
		div.AppendChild(n)
	}
	return div
}
