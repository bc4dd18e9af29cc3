package skills

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillflow/skillflow-server/internal/models"
	"github.com/skillflow/skillflow-server/internal/store"
)

const userID = "user-1"

func newRepo(t *testing.T) (*Repository, store.Store) {
	t.Helper()
	st := store.NewMemory()
	return NewRepository(st), st
}

func TestLoadMissingOrCorruptYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, st := newRepo(t)

	require.Empty(t, repo.Load(ctx, userID))

	require.NoError(t, st.Set(ctx, store.UserDataKey(userID), []byte("{broken")))
	require.Empty(t, repo.Load(ctx, userID))
}

func TestAddSkill(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	skill, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)
	require.NotEmpty(t, skill.ID)
	require.Contains(t, themeColors, skill.ThemeColor)
	require.Empty(t, skill.Entries)

	list := repo.Load(ctx, userID)
	require.Len(t, list, 1)
	require.Equal(t, "Go", list[0].Name)
}

func TestRenameAndDeleteSkill(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	skill, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)

	require.NoError(t, repo.RenameSkill(ctx, userID, skill.ID, "Golang"))
	require.Equal(t, "Golang", repo.Load(ctx, userID)[0].Name)

	require.NoError(t, repo.DeleteSkill(ctx, userID, skill.ID))
	require.Empty(t, repo.Load(ctx, userID))

	require.ErrorIs(t, repo.RenameSkill(ctx, userID, skill.ID, "x"), ErrSkillNotFound)
	require.ErrorIs(t, repo.DeleteSkill(ctx, userID, skill.ID), ErrSkillNotFound)
}

func TestAddEntryPrepends(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	skill, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)

	e1, err := repo.AddEntry(ctx, userID, skill.ID, models.Entry{Topic: "interfaces", Progress: models.ProgressOnGoing})
	require.NoError(t, err)
	e2, err := repo.AddEntry(ctx, userID, skill.ID, models.Entry{Topic: "generics", Progress: models.ProgressNotStarted})
	require.NoError(t, err)

	entries := repo.Load(ctx, userID)[0].Entries
	require.Len(t, entries, 2)
	require.Equal(t, e2.ID, entries[0].ID)
	require.Equal(t, e1.ID, entries[1].ID)
}

func TestAddBulkEntries(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	skill, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)

	existing, err := repo.AddEntry(ctx, userID, skill.ID, models.Entry{Topic: "old topic"})
	require.NoError(t, err)

	n, err := repo.AddBulkEntries(ctx, userID, skill.ID, " ModA ", []string{"T1", " T2 ", "", "   ", "T3"})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	entries := repo.Load(ctx, userID)[0].Entries
	require.Len(t, entries, 4)

	// the block sits ahead of older entries, in input order
	require.Equal(t, "T1", entries[0].Topic)
	require.Equal(t, "T2", entries[1].Topic)
	require.Equal(t, "T3", entries[2].Topic)
	require.Equal(t, existing.ID, entries[3].ID)

	today := time.Now().Format("2006-01-02")
	for _, e := range entries[:3] {
		require.Equal(t, "ModA", e.Module)
		require.Equal(t, models.ProgressNotStarted, e.Progress)
		require.Equal(t, today, e.Date)
		require.Empty(t, e.VideoURL)
	}
}

func TestUpdateEntry(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	skill, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)
	entry, err := repo.AddEntry(ctx, userID, skill.ID, models.Entry{Topic: "channels", Progress: models.ProgressOnGoing})
	require.NoError(t, err)

	entry.Progress = models.ProgressComplete
	entry.Subject = "concurrency"
	require.NoError(t, repo.UpdateEntry(ctx, userID, skill.ID, entry.ID, entry))

	got := repo.Load(ctx, userID)[0].Entries[0]
	require.Equal(t, entry.ID, got.ID)
	require.Equal(t, models.ProgressComplete, got.Progress)
	require.Equal(t, "concurrency", got.Subject)

	require.ErrorIs(t, repo.UpdateEntry(ctx, userID, skill.ID, "missing", entry), ErrEntryNotFound)
	require.ErrorIs(t, repo.UpdateEntry(ctx, userID, "missing", entry.ID, entry), ErrSkillNotFound)
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	skill, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)
	entry, err := repo.AddEntry(ctx, userID, skill.ID, models.Entry{Topic: "channels"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEntry(ctx, userID, skill.ID, entry.ID))
	require.Empty(t, repo.Load(ctx, userID)[0].Entries)

	require.ErrorIs(t, repo.DeleteEntry(ctx, userID, skill.ID, entry.ID), ErrEntryNotFound)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo, st := newRepo(t)

	_, err := repo.AddSkill(ctx, userID, "Go")
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx, userID))
	require.Empty(t, repo.Load(ctx, userID))

	_, ok, err := st.Get(ctx, store.UserDataKey(userID))
	require.NoError(t, err)
	require.False(t, ok)
}
