package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skillflow/skillflow-server/internal/store"
)

const systemLogCap = 500

// systemLogEntry is one ERROR+ record persisted for later inspection.
type systemLogEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// StoreHandler is an slog.Handler that batches ERROR+ records into the record
// store under a capped key, so operational errors survive a restart even on
// the sqlite driver.
type StoreHandler struct {
	st     store.Store
	mu     sync.Mutex
	buffer []systemLogEntry
	ticker *time.Ticker
	done   chan struct{}
}

func NewStoreHandler(st store.Store) *StoreHandler {
	h := &StoreHandler{
		st:     st,
		buffer: make([]systemLogEntry, 0, 50),
		ticker: time.NewTicker(5 * time.Second),
		done:   make(chan struct{}),
	}
	go h.flushLoop()
	return h
}

func (h *StoreHandler) flushLoop() {
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.done:
			h.flush()
			return
		}
	}
}

func (h *StoreHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.buffer
	h.buffer = make([]systemLogEntry, 0, 50)
	h.mu.Unlock()

	ctx := context.Background()
	var existing []systemLogEntry
	if blob, ok, err := h.st.Get(ctx, store.SystemLogsKey); err == nil && ok {
		// Corrupt history is discarded rather than blocking new records.
		_ = json.Unmarshal(blob, &existing)
	}

	merged := append(batch, existing...)
	if len(merged) > systemLogCap {
		merged = merged[:systemLogCap]
	}

	blob, err := json.Marshal(merged)
	if err != nil {
		return
	}
	if err := h.st.Set(ctx, store.SystemLogsKey, blob); err != nil {
		// Cannot slog here: the default logger routes back into this handler.
		return
	}
}

func (h *StoreHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
}

// Enabled only handles ERROR and above.
func (h *StoreHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *StoreHandler) Handle(_ context.Context, record slog.Record) error {
	entry := systemLogEntry{
		ID:        uuid.NewString(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	attrs := make(map[string]any)
	record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	if len(attrs) > 0 {
		entry.Attrs = attrs
	}

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	needFlush := len(h.buffer) >= 50
	h.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func (h *StoreHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *StoreHandler) WithGroup(string) slog.Handler { return h }
