package bookings

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfirmationPath is where a successful booking lands
const ConfirmationPath = "/order-confirmation/"

// Confirmation is the outcome of a successful submission
type Confirmation struct {
	TicketIDs  []int64 `json:"ticket_ids"`
	RedirectTo string  `json:"redirect_to"`
}

func newConfirmation(ids []int64) *Confirmation {
	return &Confirmation{
		TicketIDs:  ids,
		RedirectTo: fmt.Sprintf("%s?tickets=%s", ConfirmationPath, JoinIDs(ids)),
	}
}

// JoinIDs formats ids as a comma separated list
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseIDs reads a comma separated id list, skipping malformed entries
func ParseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
