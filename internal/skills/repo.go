// Package skills is the per-user skill/entry repository. A user's skills are
// loaded and saved as one unit; every mutation rewrites the whole collection.
package skills

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrEntryNotFound = errors.New("entry not found")
)

// themeColors is the fixed palette new skills draw from.
var themeColors = []string{"#6366f1", "#10b981", "#f59e0b", "#ec4899", "#8b5cf6", "#3b82f6"}

type Repository struct {
	st store.Store
}

func NewRepository(st store.Store) *Repository {
	return &Repository{st: st}
}

// Load returns the user's skills, newest entries first within each skill.
// Missing, unreadable or corrupt data all yield an empty collection; the
// distinction is logged but not surfaced.
func (r *Repository) Load(ctx context.Context, userID string) []models.Skill {
	blob, ok, err := r.st.Get(ctx, store.UserDataKey(userID))
	if err != nil {
		slog.Error("failed to load skills", "error", err, "user_id", userID)
		return []models.Skill{}
	}
	if !ok {
		return []models.Skill{}
	}

	var list []models.Skill
	if err := json.Unmarshal(blob, &list); err != nil {
		slog.Error("corrupt skill collection", "error", err, "user_id", userID)
		return []models.Skill{}
	}
	if list == nil {
		list = []models.Skill{}
	}
	return list
}

// Save overwrites the user's whole collection.
func (r *Repository) Save(ctx context.Context, userID string, list []models.Skill) error {
	if list == nil {
		list = []models.Skill{}
	}
	blob, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	return r.st.Set(ctx, store.UserDataKey(userID), blob)
}

// Clear removes the user's collection entirely.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	return r.st.Remove(ctx, store.UserDataKey(userID))
}

// AddSkill appends a new empty skill with a palette color.
func (r *Repository) AddSkill(ctx context.Context, userID, name string) (models.Skill, error) {
	skill := models.Skill{
		ID:         uuid.NewString(),
		Name:       name,
		Entries:    []models.Entry{},
		CreatedAt:  time.Now(),
		ThemeColor: themeColors[rand.Intn(len(themeColors))],
	}

	list := append(r.Load(ctx, userID), skill)
	if err := r.Save(ctx, userID, list); err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

// RenameSkill changes a skill's name.
func (r *Repository) RenameSkill(ctx context.Context, userID, skillID, name string) error {
	list := r.Load(ctx, userID)
	for i := range list {
		if list[i].ID == skillID {
			list[i].Name = name
			return r.Save(ctx, userID, list)
		}
	}
	return ErrSkillNotFound
}

// DeleteSkill removes a skill and, with it, all of its entries.
func (r *Repository) DeleteSkill(ctx context.Context, userID, skillID string) error {
	list := r.Load(ctx, userID)
	for i := range list {
		if list[i].ID == skillID {
			list = append(list[:i], list[i+1:]...)
			return r.Save(ctx, userID, list)
		}
	}
	return ErrSkillNotFound
}

// AddEntry assigns an id and prepends the entry, keeping newest-first order.
func (r *Repository) AddEntry(ctx context.Context, userID, skillID string, entry models.Entry) (models.Entry, error) {
	entry.ID = uuid.NewString()

	list := r.Load(ctx, userID)
	for i := range list {
		if list[i].ID == skillID {
			list[i].Entries = append([]models.Entry{entry}, list[i].Entries...)
			if err := r.Save(ctx, userID, list); err != nil {
				return models.Entry{}, err
			}
			return entry, nil
		}
	}
	return models.Entry{}, ErrSkillNotFound
}

// AddBulkEntries creates one entry per topic, all sharing the module and
// today's date, and prepends them as one block in input order. Topics are
// trimmed; blank lines are dropped.
func (r *Repository) AddBulkEntries(ctx context.Context, userID, skillID, module string, topics []string) (int, error) {
	today := time.Now().Format("2006-01-02")
	module = strings.TrimSpace(module)

	var block []models.Entry
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		block = append(block, models.Entry{
			ID:       uuid.NewString(),
			Date:     today,
			Topic:    topic,
			Module:   module,
			Progress: models.ProgressNotStarted,
		})
	}

	list := r.Load(ctx, userID)
	for i := range list {
		if list[i].ID == skillID {
			list[i].Entries = append(block, list[i].Entries...)
			if err := r.Save(ctx, userID, list); err != nil {
				return 0, err
			}
			return len(block), nil
		}
	}
	return 0, ErrSkillNotFound
}

// UpdateEntry replaces the entry with the given id, preserving its position.
func (r *Repository) UpdateEntry(ctx context.Context, userID, skillID, entryID string, entry models.Entry) error {
	entry.ID = entryID

	list := r.Load(ctx, userID)
	for i := range list {
		if list[i].ID != skillID {
			continue
		}
		for j := range list[i].Entries {
			if list[i].Entries[j].ID == entryID {
				list[i].Entries[j] = entry
				return r.Save(ctx, userID, list)
			}
		}
		return ErrEntryNotFound
	}
	return ErrSkillNotFound
}

// DeleteEntry removes the entry with the given id from the owning skill.
func (r *Repository) DeleteEntry(ctx context.Context, userID, skillID, entryID string) error {
	list := r.Load(ctx, userID)
	for i := range list {
		if list[i].ID != skillID {
			continue
		}
		for j := range list[i].Entries {
			if list[i].Entries[j].ID == entryID {
				list[i].Entries = append(list[i].Entries[:j], list[i].Entries[j+1:]...)
				return r.Save(ctx, userID, list)
			}
		}
		return ErrEntryNotFound
	}
	return ErrSkillNotFound
}
