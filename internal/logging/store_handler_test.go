package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillflow/skillflow-server/internal/store"
)

func record(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

func readLogs(t *testing.T, st store.Store) []systemLogEntry {
	t.Helper()
	blob, ok, err := st.Get(context.Background(), store.SystemLogsKey)
	require.NoError(t, err)
	require.True(t, ok)
	var entries []systemLogEntry
	require.NoError(t, json.Unmarshal(blob, &entries))
	return entries
}

func TestStoreHandlerEnabled(t *testing.T) {
	h := NewStoreHandler(store.NewMemory())
	defer h.Stop()

	ctx := context.Background()
	require.False(t, h.Enabled(ctx, slog.LevelDebug))
	require.False(t, h.Enabled(ctx, slog.LevelInfo))
	require.False(t, h.Enabled(ctx, slog.LevelWarn))
	require.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestStoreHandlerFlushPrependsBatch(t *testing.T) {
	st := store.NewMemory()
	h := NewStoreHandler(st)
	defer h.Stop()

	ctx := context.Background()
	rec := record(slog.LevelError, "disk full")
	rec.AddAttrs(slog.String("path", "/tmp/x"))
	require.NoError(t, h.Handle(ctx, rec))
	h.flush()

	require.NoError(t, h.Handle(ctx, record(slog.LevelError, "second failure")))
	h.flush()

	entries := readLogs(t, st)
	require.Len(t, entries, 2)
	require.Equal(t, "second failure", entries[0].Message)
	require.Equal(t, "disk full", entries[1].Message)
	require.Equal(t, "ERROR", entries[1].Level)
	require.Equal(t, "/tmp/x", entries[1].Attrs["path"])
	require.NotEmpty(t, entries[0].ID)
}

func TestStoreHandlerCapsHistory(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	existing := make([]systemLogEntry, systemLogCap-1)
	for i := range existing {
		existing[i] = systemLogEntry{ID: fmt.Sprintf("old-%d", i), Message: "old"}
	}
	blob, err := json.Marshal(existing)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, store.SystemLogsKey, blob))

	h := NewStoreHandler(st)
	defer h.Stop()
	require.NoError(t, h.Handle(ctx, record(slog.LevelError, "a")))
	require.NoError(t, h.Handle(ctx, record(slog.LevelError, "b")))
	require.NoError(t, h.Handle(ctx, record(slog.LevelError, "c")))
	h.flush()

	entries := readLogs(t, st)
	require.Len(t, entries, systemLogCap)
	require.Equal(t, "a", entries[0].Message)
	require.Equal(t, "c", entries[2].Message)
	require.Equal(t, "old-0", entries[3].ID)
	require.Equal(t, "old-496", entries[systemLogCap-1].ID)
}

func TestStoreHandlerToleratesCorruptHistory(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, store.SystemLogsKey, []byte("{broken")))

	h := NewStoreHandler(st)
	defer h.Stop()
	require.NoError(t, h.Handle(ctx, record(slog.LevelError, "fresh")))
	h.flush()

	entries := readLogs(t, st)
	require.Len(t, entries, 1)
	require.Equal(t, "fresh", entries[0].Message)
}
