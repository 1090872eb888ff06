package views

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats an amount as dollars with two decimals and thousands
// separators, e.g. "$6,500.00"
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// Truncate shortens s to n runes and marks the cut with "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Plural returns word with an "s" unless n is 1
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
