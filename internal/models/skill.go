package models

import "time"

// Progress levels for an entry. The display strings are part of the stored
// format and of CSV exports, so they are not normalized.
const (
	ProgressNotStarted = "Not Started Yet"
	ProgressOnGoing    = "On Going"
	ProgressComplete   = "Complete"
	ProgressHold       = "Hold"
)

// DefaultModule groups entries that carry no module label.
const DefaultModule = "Uncategorized"

// Entry is one dated learning record inside a skill.
type Entry struct {
	ID         string `json:"id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Topic      string `json:"topic"`
	Subject    string `json:"subject"`
	Module     string `json:"module,omitempty"`
	Progress   string `json:"progress"`
	VideoURL   string `json:"videoUrl,omitempty"`
	WebsiteURL string `json:"websiteUrl,omitempty"`
	DocsURL    string `json:"docsUrl,omitempty"`
	OtherURL   string `json:"otherUrl,omitempty"`
}

// Skill is a user-defined topic area. Entries are kept newest-first; every
// mutation rewrites the owning user's whole collection.
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Entries     []Entry   `json:"entries"`
	CreatedAt   time.Time `json:"createdAt"`
	ThemeColor  string    `json:"themeColor"`
}
