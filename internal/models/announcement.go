package models

import "time"

// Announcement types.
const (
	AnnounceInfo    = "info"
	AnnounceWarning = "warning"
	AnnounceSuccess = "success"
)

// Announcement is an admin-authored broadcast message. Immutable after
// creation; the list is stored newest-first.
type Announcement struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
