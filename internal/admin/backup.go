package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/skills"
	"github.com/skillflow/skillflow-server/internal/store"
	"github.com/skillflow/skillflow-server/internal/users"
)

// BackupVersion tags exported documents. Import does not check it; presence
// of users and allUserData is the only validation.
const BackupVersion = "2.0"

var ErrInvalidBackup = errors.New("invalid backup document")

// Backup is the full-system transport document. Users carry their password
// hashes so a restore reproduces credentials.
type Backup struct {
	Version       string                    `json:"version"`
	Timestamp     time.Time                 `json:"timestamp"`
	Users         []models.User             `json:"users"`
	AllUserData   map[string][]models.Skill `json:"allUserData"`
	Announcements []models.Announcement     `json:"announcements,omitempty"`
	AuditLogs     []models.AuditLog         `json:"auditLogs,omitempty"`
}

type BackupService struct {
	st    store.Store
	users *users.Service
	repo  *skills.Repository
	audit *audit.Service
}

func NewBackupService(st store.Store, userSvc *users.Service, repo *skills.Repository, auditSvc *audit.Service) *BackupService {
	return &BackupService{st: st, users: userSvc, repo: repo, audit: auditSvc}
}

// ExportAll serializes the entire system state into one document.
func (b *BackupService) ExportAll(ctx context.Context) ([]byte, error) {
	directory := b.users.All(ctx)

	allData := make(map[string][]models.Skill)
	for _, u := range directory {
		if list := b.repo.Load(ctx, u.ID); len(list) > 0 {
			allData[u.ID] = list
		}
	}

	doc := Backup{
		Version:     BackupVersion,
		Timestamp:   time.Now(),
		Users:       directory,
		AllUserData: allData,
		AuditLogs:   b.audit.List(ctx),
	}
	if blob, ok, err := b.st.Get(ctx, store.AnnouncementsKey); err == nil && ok {
		_ = json.Unmarshal(blob, &doc.Announcements)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// ImportAll restores a document. Validation happens before any write, so a
// rejected document leaves existing state untouched; a crash mid-restore
// still leaves a partial state, since keys are written independently.
func (b *BackupService) ImportAll(ctx context.Context, raw []byte, performedBy string) error {
	var doc Backup
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if doc.Users == nil || doc.AllUserData == nil {
		return ErrInvalidBackup
	}

	if err := b.users.ReplaceAll(ctx, doc.Users); err != nil {
		return err
	}
	for userID, list := range doc.AllUserData {
		if err := b.repo.Save(ctx, userID, list); err != nil {
			slog.Error("restore: failed to write user data", "error", err, "user_id", userID)
		}
	}
	if doc.Announcements != nil {
		if blob, err := json.Marshal(doc.Announcements); err == nil {
			if err := b.st.Set(ctx, store.AnnouncementsKey, blob); err != nil {
				slog.Error("restore: failed to write announcements", "error", err)
			}
		}
	}
	if doc.AuditLogs != nil {
		if blob, err := json.Marshal(doc.AuditLogs); err == nil {
			if err := b.st.Set(ctx, store.AuditLogsKey, blob); err != nil {
				slog.Error("restore: failed to write audit logs", "error", err)
			}
		}
	}

	b.audit.Log(ctx, "System Restore", "Full system restoration performed", performedBy)
	return nil
}
