package models

import "time"

// Alert statuses.
const (
	AlertUnread = "unread"
	AlertRead   = "read"
)

// Alert is a system notification shown to operators.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the backend identifier.
func (a Alert) Key() string { return a.ID }
