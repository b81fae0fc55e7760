package models

import (
	"encoding/json"
	"time"
)

// Audit outcomes.
const (
	AuditSucceeded = "succeeded"
	AuditFailed    = "failed"
)

// AuditLog records one mutation command issued from the console.
type AuditLog struct {
	ID        string          `db:"id" json:"id"`
	Resource  string          `db:"resource" json:"resource"`
	TargetID  string          `db:"target_id" json:"targetId"`
	Operation string          `db:"operation" json:"operation"`
	Reconcile string          `db:"reconcile" json:"reconcile"`
	Outcome   string          `db:"outcome" json:"outcome"`
	ErrorCode *string         `db:"error_code" json:"errorCode,omitempty"`
	Message   *string         `db:"message" json:"message,omitempty"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// AuditFilter narrows audit journal queries.
type AuditFilter struct {
	Resource string
	TargetID string
	Limit    int
	Offset   int
}
