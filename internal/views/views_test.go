package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"boxoffice/internal/navigation"
)

func TestLayoutRendersNavInOrder(t *testing.T) {
	links := navigation.LinkSet{navigation.LinkOrders, navigation.LinkDashboard, navigation.LinkLogout}
	doc := Layout("Home", links, Heading("Upcoming Events"))

	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("document should start with a doctype, got %q", out[:20])
	}
	if !strings.Contains(out, "<title>Home | EventTicketing</title>") {
		t.Fatalf("missing title in %s", out)
	}

	orders := strings.Index(out, "My Orders")
	dashboard := strings.Index(out, "Dashboard")
	logout := strings.Index(out, "Logout")
	if orders < 0 || dashboard < orders || logout < dashboard {
		t.Fatalf("links out of order in %s", out)
	}
	if !strings.Contains(out, `<form method="post" action="/logout/"`) {
		t.Fatalf("logout should be a post form: %s", out)
	}
}

func TestTextIsEscaped(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, ErrorMessage(`<script>alert("x")</script>`)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("text must be escaped, got %s", buf.String())
	}
}

func TestFindAndTextContent(t *testing.T) {
	tree := Fragment(
		El("span", Attrs("id", "total"), Text("75"), Text(".00")),
		El("span", Attrs("id", "labels"), Text("B")),
	)

	if got := TextContent(Find(tree, "total")); got != "75.00" {
		t.Fatalf("TextContent = %q", got)
	}
	if Find(tree, "missing") != nil {
		t.Fatalf("Find should return nil for unknown ids")
	}
}

func TestElSkipsNilChildren(t *testing.T) {
	n := El("div", nil, nil, Text("a"), nil)
	if n.FirstChild == nil || n.FirstChild != n.LastChild {
		t.Fatalf("expected exactly one child")
	}
}

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "$0.00",
		"75":          "$75.00",
		"6500":        "$6,500.00",
		"1234567.891": "$1,234,567.89",
		"-42.5":       "-$42.50",
	}
	for in, want := range cases {
		if got := Money(decimal.RequireFromString(in)); got != want {
			t.Fatalf("Money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 80); got != "short" {
		t.Fatalf("short strings stay intact, got %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestMarkdownIsSafe(t *testing.T) {
	n := Markdown("**Doors** open at 7\n<script>alert(1)</script>", "event-description")

	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<div class="event-description">`) || !strings.Contains(out, "<strong>Doors</strong>") {
		t.Fatalf("markdown not rendered: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw html must not pass through: %s", out)
	}
}
