package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

func newManager(t *testing.T) (*Manager, store.Store, *audit.Service) {
	t.Helper()
	st := store.NewMemory()
	auditSvc := audit.NewService(st)
	return NewManager(st, auditSvc), st, auditSvc
}

func alice() models.User {
	return models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: models.RoleUser, PasswordHash: "hash"}
}

func admin() models.User {
	return models.User{ID: "a1", Name: "Root", Email: "root@example.com", Role: models.RoleAdmin}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	require.Nil(t, m.Get(ctx))

	require.NoError(t, m.Create(ctx, alice(), "tok-1"))
	sess := m.Get(ctx)
	require.NotNil(t, sess)
	require.Equal(t, "u1", sess.User.ID)
	require.Equal(t, "tok-1", sess.Token)
	// snapshot never carries password material
	require.Empty(t, sess.User.PasswordHash)
}

func TestCreateOverwritesPriorSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	require.NoError(t, m.Create(ctx, alice(), "tok-1"))
	require.NoError(t, m.Create(ctx, admin(), "tok-2"))

	sess := m.Get(ctx)
	require.Equal(t, "a1", sess.User.ID)
}

func TestGetToleratesCorruptBlob(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager(t)

	require.NoError(t, st.Set(ctx, store.SessionKey, []byte("{oops")))
	require.Nil(t, m.Get(ctx))
}

func TestClearAuditsLogout(t *testing.T) {
	ctx := context.Background()
	m, _, auditSvc := newManager(t)

	require.NoError(t, m.Create(ctx, alice(), "tok-1"))
	m.Clear(ctx)

	require.Nil(t, m.Get(ctx))
	logs := auditSvc.List(ctx)
	require.Len(t, logs, 1)
	require.Equal(t, "User Logout", logs[0].Action)
	require.Equal(t, "alice@example.com", logs[0].PerformedBy)
}

func TestClearWithoutSessionSkipsAudit(t *testing.T) {
	ctx := context.Background()
	m, _, auditSvc := newManager(t)

	m.Clear(ctx)
	require.Empty(t, auditSvc.List(ctx))
}

func TestImpersonationRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	require.NoError(t, m.Create(ctx, admin(), "tok-admin"))
	require.NoError(t, m.Impersonate(ctx, admin(), alice()))

	// session is now the target; the admin waits in the transient slot
	sess := m.Get(ctx)
	require.Equal(t, "u1", sess.User.ID)
	imp := m.Impersonator(ctx)
	require.NotNil(t, imp)
	require.Equal(t, "a1", imp.ID)

	actor := Actor{ActingAs: sess.User, RealIdentity: *imp}
	require.True(t, actor.Impersonating())

	restored, err := m.StopImpersonation(ctx)
	require.NoError(t, err)
	require.Equal(t, "a1", restored.ID)
	require.Equal(t, "a1", m.Get(ctx).User.ID)
	require.Nil(t, m.Impersonator(ctx))
}

func TestStopImpersonationWithoutSlot(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	_, err := m.StopImpersonation(ctx)
	require.ErrorIs(t, err, ErrNotImpersonating)
}
