package adminlogs

import "time"

// ActionLog is one entry of the backend's audit trail
type ActionLog struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
