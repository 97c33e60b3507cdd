// Package history keeps the bounded, newest-first log of past crop and
// disease analyses. Persistence is best-effort: a failed write never blocks
// the workflow that produced the entry.
package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense/advisor-cli/internal/kvstore"
	"github.com/agrisense/advisor-cli/internal/model"
)

// DefaultCapacity is the maximum number of retained entries.
const DefaultCapacity = 20

// Store is the append-only analysis log shared by the crop and disease
// workflows.
type Store struct {
	kv       kvstore.Store
	capacity int
}

// New creates a Store over the given kv backend. capacity <= 0 selects
// DefaultCapacity.
func New(kv kvstore.Store, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{kv: kv, capacity: capacity}
}

// Append prepends an entry and truncates to capacity. Persistence failures
// are logged and swallowed.
func (s *Store) Append(ctx context.Context, entryType model.EntryType, summary map[string]any) {
	entry := model.HistoryEntry{
		ID:      uuid.New().String(),
		Type:    entryType,
		Summary: summary,
		Date:    time.Now().UTC(),
	}

	entries := s.read(ctx)
	entries = append([]model.HistoryEntry{entry}, entries...)
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		zap.L().Warn("history: marshal failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, kvstore.KeyHistory, data); err != nil {
		zap.L().Warn("history: write failed", zap.Error(err))
	}
}

// ReadRecent returns up to n newest-first entries. Absent or corrupt
// storage reads as empty, never as an error.
func (s *Store) ReadRecent(ctx context.Context, n int) []model.HistoryEntry {
	entries := s.read(ctx)
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, kvstore.KeyHistory)
}

func (s *Store) read(ctx context.Context) []model.HistoryEntry {
	data, ok, err := s.kv.Get(ctx, kvstore.KeyHistory)
	if err != nil {
		zap.L().Warn("history: read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		zap.L().Warn("history: corrupt storage, treating as empty", zap.Error(err))
		return nil
	}
	return entries
}
