package models

import "time"

// AuditLog is one entry in the append-only activity log. PerformedBy is an
// email address or "System".
type AuditLog struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	PerformedBy string    `json:"performedBy"`
	Timestamp   time.Time `json:"timestamp"`
}
