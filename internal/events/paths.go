package events

import "fmt"

// Site paths owned by this package
const (
	CreatePath = "/organizer/events"
)

func DetailPath(id int64) string {
	return fmt.Sprintf("/event/%d/", id)
}

func BookingPath(id int64) string {
	return fmt.Sprintf("/book-event/%d/", id)
}

func DeletePath(id int64) string {
	return fmt.Sprintf("/organizer/events/%d/delete", id)
}
