// Package session tracks the single currently authenticated user and the
// impersonation slot an admin uses to act as someone else.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

var ErrNotImpersonating = errors.New("no impersonation in progress")

// Session is the persisted snapshot: a user copy plus the auth token issued
// at login. The user is a value copy, not a live link into the directory.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// Actor identifies who is performing an operation. During impersonation
// ActingAs is the target user and RealIdentity the admin behind it;
// otherwise the two are the same.
type Actor struct {
	ActingAs     models.User
	RealIdentity models.User
}

// Impersonating reports whether the actor is an admin wearing another
// user's identity.
func (a Actor) Impersonating() bool {
	return a.ActingAs.ID != a.RealIdentity.ID
}

type Manager struct {
	st    store.Store
	audit *audit.Service
}

func NewManager(st store.Store, auditSvc *audit.Service) *Manager {
	return &Manager{st: st, audit: auditSvc}
}

// Create persists the given user as the current session, replacing any prior
// one. Password material is never stored in the session.
func (m *Manager) Create(ctx context.Context, user models.User, token string) error {
	sess := Session{User: user.Safe(), Token: token}
	blob, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return m.st.Set(ctx, store.SessionKey, blob)
}

// Get returns the current session, or nil when none exists or the stored
// blob is corrupt.
func (m *Manager) Get(ctx context.Context) *Session {
	blob, ok, err := m.st.Get(ctx, store.SessionKey)
	if err != nil {
		slog.Error("failed to read session", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var sess Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		slog.Error("corrupt session blob", "error", err)
		return nil
	}
	return &sess
}

// Clear removes the session and audits the logout, attributed to the
// outgoing user. Skipped silently when no session existed.
func (m *Manager) Clear(ctx context.Context) {
	sess := m.Get(ctx)
	if sess != nil {
		m.audit.Log(ctx, "User Logout", "Logged out", sess.User.Email)
	}
	if err := m.st.Remove(ctx, store.SessionKey); err != nil {
		slog.Error("failed to clear session", "error", err)
	}
}

// Impersonate saves the real admin identity to the transient slot and
// overwrites the session with the target user.
func (m *Manager) Impersonate(ctx context.Context, admin, target models.User) error {
	blob, err := json.Marshal(admin.Safe())
	if err != nil {
		return err
	}
	if err := m.st.Set(ctx, store.ImpersonatorKey, blob); err != nil {
		return err
	}
	return m.Create(ctx, target, "")
}

// Impersonator returns the saved admin identity, or nil when no
// impersonation is in progress.
func (m *Manager) Impersonator(ctx context.Context) *models.User {
	blob, ok, err := m.st.Get(ctx, store.ImpersonatorKey)
	if err != nil || !ok {
		return nil
	}
	var admin models.User
	if err := json.Unmarshal(blob, &admin); err != nil {
		return nil
	}
	return &admin
}

// StopImpersonation restores the saved admin identity as the session and
// discards the transient slot.
func (m *Manager) StopImpersonation(ctx context.Context) (models.User, error) {
	admin := m.Impersonator(ctx)
	if admin == nil {
		return models.User{}, ErrNotImpersonating
	}
	if err := m.Create(ctx, *admin, ""); err != nil {
		return models.User{}, err
	}
	if err := m.st.Remove(ctx, store.ImpersonatorKey); err != nil {
		slog.Error("failed to discard impersonator slot", "error", err)
	}
	return *admin, nil
}
