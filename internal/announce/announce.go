// Package announce manages admin-authored broadcast announcements.
package announce

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

type Service struct {
	st    store.Store
	audit *audit.Service
}

func NewService(st store.Store, auditSvc *audit.Service) *Service {
	return &Service{st: st, audit: auditSvc}
}

// Create prepends a new announcement. Message presence is the caller's
// concern; this layer only assigns identity and timestamps.
func (s *Service) Create(ctx context.Context, message, typ, createdBy string) (models.Announcement, error) {
	item := models.Announcement{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      typ,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	items := s.List(ctx)
	items = append([]models.Announcement{item}, items...)
	if err := s.save(ctx, items); err != nil {
		return models.Announcement{}, err
	}

	s.audit.Log(ctx, "Create Announcement", "Posted: \""+truncate(message, 20)+"...\"", createdBy)
	return item, nil
}

// List returns announcements in insertion order, newest first.
func (s *Service) List(ctx context.Context) []models.Announcement {
	blob, ok, err := s.st.Get(ctx, store.AnnouncementsKey)
	if err != nil {
		slog.Error("failed to read announcements", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var items []models.Announcement
	if err := json.Unmarshal(blob, &items); err != nil {
		slog.Error("corrupt announcements blob", "error", err)
		return nil
	}
	return items
}

// Delete removes by id. An absent id is a no-op, not an error.
func (s *Service) Delete(ctx context.Context, id, performedBy string) error {
	items := s.List(ctx)
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}

	s.audit.Log(ctx, "Delete Announcement", "Deleted announcement ID: "+id, performedBy)
	return nil
}

func (s *Service) save(ctx context.Context, items []models.Announcement) error {
	if items == nil {
		items = []models.Announcement{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.st.Set(ctx, store.AnnouncementsKey, blob)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
