package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is one account in the user directory. The directory is persisted as a
// single JSON array under one record-store key, so there are no table tags
// here; PasswordHash travels with the record (and with system backups) but is
// stripped from every API response via the json:"-" on SafeUser conversions.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// Safe returns a copy with the password hash blanked, for sessions and API
// responses.
func (u User) Safe() User {
	u.PasswordHash = ""
	return u
}
