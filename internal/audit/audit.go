// Package audit keeps the append-only activity log: who did what, capped at
// the most recent 500 entries.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

// MaxEntries is the retention cap; the oldest entries are evicted first.
const MaxEntries = 500

type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// Log prepends an entry and persists the truncated list. Audit logging must
// never break the operation being audited, so failures are logged and
// swallowed.
func (s *Service) Log(ctx context.Context, action, details, performedBy string) {
	if performedBy == "" {
		performedBy = "System"
	}

	logs := s.List(ctx)
	entry := models.AuditLog{
		ID:          uuid.NewString(),
		Action:      action,
		Details:     details,
		PerformedBy: performedBy,
		Timestamp:   time.Now(),
	}

	logs = append([]models.AuditLog{entry}, logs...)
	if len(logs) > MaxEntries {
		logs = logs[:MaxEntries]
	}

	blob, err := json.Marshal(logs)
	if err != nil {
		slog.Error("failed to marshal audit logs", "error", err, "action", action)
		return
	}
	if err := s.st.Set(ctx, store.AuditLogsKey, blob); err != nil {
		slog.Error("failed to persist audit log", "error", err, "action", action)
	}
}

// List returns all retained entries, newest first. Missing or corrupt data
// yields an empty list.
func (s *Service) List(ctx context.Context) []models.AuditLog {
	blob, ok, err := s.st.Get(ctx, store.AuditLogsKey)
	if err != nil {
		slog.Error("failed to read audit logs", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var logs []models.AuditLog
	if err := json.Unmarshal(blob, &logs); err != nil {
		slog.Error("corrupt audit log blob", "error", err)
		return nil
	}
	return logs
}
