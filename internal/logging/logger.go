// Package logging wires the process-wide slog logger: JSON to stdout, with
// ERROR+ records also persisted to the record store.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/skillflow/skillflow-server/internal/store"
)

// Setup installs the global logger: a JSON handler on stdout fanned out with
// a store-backed handler that batches ERROR+ records. Stop the returned
// handler during shutdown to flush the last batch.
func Setup(st store.Store) *StoreHandler {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	persisted := NewStoreHandler(st)
	slog.SetDefault(slog.New(fanout{stdout, persisted}))
	return persisted
}

// fanout delivers each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
