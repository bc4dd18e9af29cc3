package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillflow/skillflow-server/internal/store"
)

func TestLogPrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	svc.Log(ctx, "First Action", "one", "a@b.co")
	svc.Log(ctx, "Second Action", "two", "a@b.co")

	logs := svc.List(ctx)
	require.Len(t, logs, 2)
	require.Equal(t, "Second Action", logs[0].Action)
	require.Equal(t, "First Action", logs[1].Action)
	require.NotEmpty(t, logs[0].ID)
	require.False(t, logs[0].Timestamp.IsZero())
}

func TestLogDefaultsPerformerToSystem(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	svc.Log(ctx, "Startup", "seeded", "")

	logs := svc.List(ctx)
	require.Len(t, logs, 1)
	require.Equal(t, "System", logs[0].PerformedBy)
}

func TestLogCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	for i := 0; i < MaxEntries+1; i++ {
		svc.Log(ctx, fmt.Sprintf("action-%d", i), "", "a@b.co")
	}

	logs := svc.List(ctx)
	require.Len(t, logs, MaxEntries)
	// newest retained at the head, the very first entry evicted
	require.Equal(t, fmt.Sprintf("action-%d", MaxEntries), logs[0].Action)
	require.Equal(t, "action-1", logs[MaxEntries-1].Action)
}

func TestListToleratesMissingAndCorruptData(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewService(st)

	require.Empty(t, svc.List(ctx))

	require.NoError(t, st.Set(ctx, store.AuditLogsKey, []byte("{not json")))
	require.Empty(t, svc.List(ctx))
}
