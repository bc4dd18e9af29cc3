// Package store provides the record store: JSON blobs keyed by string. All
// persisted state (user directory, sessions, per-user skill collections,
// announcements, audit log) lives behind this interface. Writes are
// last-write-wins per key; there are no transactions.
package store

import "context"

// Record is one key with its stored blob, as returned by Keys for storage
// accounting and backup scans.
type Record struct {
	Key  string
	Blob []byte
}

// Store is the record store contract. Get reports (nil, false, nil) for a
// missing key. Set overwrites unconditionally. Remove of a missing key is not
// an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]Record, error)
	Close() error
}

// Logical keys of the persisted key space. Per-user skill collections use
// UserDataKey.
const (
	UsersKey         = "skillflow_users_v2"
	SessionKey       = "skillflow_session_v2"
	ImpersonatorKey  = "skillflow_admin_impersonator"
	AnnouncementsKey = "skillflow_announcements"
	AuditLogsKey     = "skillflow_audit_logs"
	SystemLogsKey    = "skillflow_system_logs"

	userDataPrefix = "skillflow_data_"
)

// UserDataKey returns the record key holding the given user's skill
// collection.
func UserDataKey(userID string) string {
	return userDataPrefix + userID
}
