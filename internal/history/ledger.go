// Package history keeps the bounded, deduplicated list of recent queries
// and persists it to a store.KV under a single key.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/metrics"
	"github.com/i474232898/weather-lookup/internal/store"
)

const (
	// StorageKey is where the ledger lives in durable storage.
	StorageKey = "weather_search_history"

	// MaxEntries caps the ledger length.
	MaxEntries = 5
)

// Record returns a new ledger with key moved (or added) to the front and the
// result truncated to limit. current is never modified.
func Record(key string, current []string, limit int) []string {
	if limit <= 0 {
		limit = MaxEntries
	}
	out := make([]string, 0, min(len(current)+1, limit))
	out = append(out, key)
	for _, k := range current {
		if len(out) == limit {
			break
		}
		if k == key {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Ledger owns the in-memory history and is the only writer of StorageKey.
type Ledger struct {
	kv    store.KV
	key   string
	limit int

	mu      sync.RWMutex
	entries []string
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithLimit overrides MaxEntries.
func WithLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithStorageKey overrides StorageKey.
func WithStorageKey(key string) Option {
	return func(l *Ledger) {
		if key != "" {
			l.key = key
		}
	}
}

// New creates an empty Ledger backed by kv. Call Load to pick up a prior session.
func New(kv store.KV, opts ...Option) *Ledger {
	l := &Ledger{
		kv:    kv,
		key:   StorageKey,
		limit: MaxEntries,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the persisted ledger and makes it current. A missing, unreadable
// or corrupt record yields an empty ledger; storage errors never reach the caller.
func (l *Ledger) Load(ctx context.Context) []string {
	entries := l.read(ctx)

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()

	metrics.HistoryEntries.Set(float64(len(entries)))
	return clone(entries)
}

func (l *Ledger) read(ctx context.Context) []string {
	raw, err := l.kv.Get(ctx, l.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.Warn("history load failed, starting empty", "key", l.key, "error", err)
		}
		return nil
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logging.Warn("history record is corrupt, starting empty", "key", l.key, "error", err)
		return nil
	}
	return sanitize(stored, l.limit)
}

// sanitize drops blank and repeated entries (keeping the first, most recent
// occurrence) and enforces the cap, so a hand-edited record can't break invariants.
func sanitize(stored []string, limit int) []string {
	seen := make(map[string]struct{}, len(stored))
	out := make([]string, 0, min(len(stored), limit))
	for _, k := range stored {
		if len(out) == limit {
			break
		}
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Entries returns a copy of the current ledger, most recent first.
func (l *Ledger) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.entries)
}

// Add records key as the most recent query and persists the new ledger.
// The in-memory ledger is updated even when persisting fails.
func (l *Ledger) Add(ctx context.Context, key string) ([]string, error) {
	l.mu.Lock()
	next := Record(key, l.entries, l.limit)
	l.entries = next
	l.mu.Unlock()

	metrics.HistoryEntries.Set(float64(len(next)))
	return clone(next), l.Persist(ctx, next)
}

// Persist writes entries as a JSON array. An empty ledger is not written,
// so a prior session's record survives a session without successful queries.
func (l *Ledger) Persist(ctx context.Context, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := l.kv.Set(ctx, l.key, string(b)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

func clone(entries []string) []string {
	if entries == nil {
		return []string{}
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}
