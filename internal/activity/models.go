package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActionType names a user action worth auditing
type ActionType string

const (
	ActionLogin       ActionType = "LOGIN"
	ActionLogout      ActionType = "LOGOUT"
	ActionRegister    ActionType = "REGISTER"
	ActionBookTicket  ActionType = "BOOK_TICKET"
	ActionCreateEvent ActionType = "CREATE_EVENT"
	ActionDeleteEvent ActionType = "DELETE_EVENT"
)

// Action is one audit record
type Action struct {
	ID        uuid.UUID  `json:"id"`
	Type      ActionType `json:"action"`
	Username  string     `json:"user"`
	Details   string     `json:"details"`
	RequestID string     `json:"request_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewAction stamps an action with a fresh id and the current time
func NewAction(t ActionType, username, details string) *Action {
	return &Action{
		ID:        uuid.New(),
		Type:      t,
		Username:  username,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// WithRequestID ties the action to the request that caused it
func (a *Action) WithRequestID(id string) *Action {
	a.RequestID = id
	return a
}

// ToJSON converts the action to JSON bytes
func (a *Action) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// PartitionKey keeps one user's actions in order on a single partition
func (a *Action) PartitionKey() string {
	if a.Username == "" {
		return "anonymous"
	}
	return a.Username
}
