package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/skills"
	"github.com/skillflow/skillflow-server/internal/store"
	"github.com/skillflow/skillflow-server/internal/users"
)

func newFixture(t *testing.T) (store.Store, *users.Service, *skills.Repository, *Aggregator) {
	t.Helper()
	st := store.NewMemory()
	auditSvc := audit.NewService(st)
	userSvc := users.NewService(st, auditSvc, "root@skillflow.io")
	repo := skills.NewRepository(st)
	return st, userSvc, repo, NewAggregator(st, userSvc, repo)
}

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	_, userSvc, repo, agg := newFixture(t)

	alice, err := userSvc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	bob, err := userSvc.Register(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	s, err := repo.AddSkill(ctx, alice.ID, "Go")
	require.NoError(t, err)
	_, err = repo.AddEntry(ctx, alice.ID, s.ID, models.Entry{Topic: "interfaces"})
	require.NoError(t, err)
	_, err = repo.AddEntry(ctx, alice.ID, s.ID, models.Entry{Topic: "generics"})
	require.NoError(t, err)
	_, err = repo.AddSkill(ctx, alice.ID, "SQL")
	require.NoError(t, err)

	stats := agg.ComputeStats(ctx)
	require.Equal(t, 2, stats.TotalUsers)
	require.Equal(t, 2, stats.TotalSkills)
	require.Equal(t, 2, stats.TotalEntries)
	require.Len(t, stats.Users, 2)

	byID := map[string]UserWithStats{}
	for _, u := range stats.Users {
		byID[u.ID] = u
		// exported stats never leak password hashes
		require.Empty(t, u.PasswordHash)
	}
	require.Equal(t, UserStats{Skills: 2, Entries: 2}, byID[alice.ID].Stats)
	require.Equal(t, UserStats{Skills: 0, Entries: 0}, byID[bob.ID].Stats)

	require.Equal(t, StorageLimitKB, stats.System.StorageLimitKB)
	require.Greater(t, stats.System.StorageUsedKB, 0)
}

func TestComputeStatsToleratesCorruptUserData(t *testing.T) {
	ctx := context.Background()
	st, userSvc, _, agg := newFixture(t)

	alice, err := userSvc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, store.UserDataKey(alice.ID), []byte("{corrupt")))

	stats := agg.ComputeStats(ctx)
	require.Equal(t, 1, stats.TotalUsers)
	require.Equal(t, 0, stats.TotalSkills)
	require.Equal(t, 0, stats.TotalEntries)
}

func TestStorageAccountingCountsEveryKey(t *testing.T) {
	ctx := context.Background()
	st, _, _, agg := newFixture(t)

	// 1024 bytes of blob ×2 for the wide-character assumption = 2 KB
	blob := make([]byte, 1024)
	for i := range blob {
		blob[i] = 'x'
	}
	require.NoError(t, st.Set(ctx, "some_key", blob))

	stats := agg.ComputeStats(ctx)
	require.Equal(t, 2, stats.System.StorageUsedKB)
}
