// Package history implements the watch-history log: a capped, most-recent-
// first list of titles the viewer has started, persisted as one JSON value
// under a single storage key.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"drama-catalog-service/internal/domain"
)

// DefaultCap is the number of entries kept before the oldest is evicted.
const DefaultCap = 50

// Store manages the watch-history log. A single mutex serializes every
// read-modify-write cycle, so concurrent mutations never clobber each other.
//
// Mutations never fail from the caller's perspective: storage errors are
// logged and swallowed, and a corrupt or missing log reads as empty. Losing
// a history write must never break playback.
type Store struct {
	storage domain.Storage
	logger  *zap.Logger
	key     string
	cap     int

	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates a history store. cap values below 1 fall back to
// DefaultCap.
func NewStore(storage domain.Storage, logger *zap.Logger, key string, cap int) *Store {
	if cap < 1 {
		cap = DefaultCap
	}

	return &Store{
		storage: storage,
		logger:  logger,
		key:     key,
		cap:     cap,
		now:     time.Now,
	}
}

// List returns the log, most recently watched first.
func (s *Store) List(ctx context.Context) []domain.WatchHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// GetByTitleID returns the entry for one title, or nil when the title has
// no history.
func (s *Store) GetByTitleID(ctx context.Context, titleID string) *domain.WatchHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.load(ctx) {
		if e.TitleID == titleID {
			entry := e
			return &entry
		}
	}

	return nil
}

// Add records a watch event. Any existing entry for the same title is
// replaced and the entry moves to the front; beyond capacity the oldest
// entries are evicted. The watch timestamp is stamped here.
func (s *Store) Add(ctx context.Context, entry domain.WatchHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.LastWatchedAt = s.now().UnixMilli()

	entries := lo.Reject(s.load(ctx), func(e domain.WatchHistoryEntry, _ int) bool {
		return e.TitleID == entry.TitleID
	})

	entries = append([]domain.WatchHistoryEntry{entry}, entries...)
	if len(entries) > s.cap {
		entries = entries[:s.cap]
	}

	s.save(ctx, entries)
}

// UpdateProgress updates the episode position and progress of an existing
// entry, refreshes its watch timestamp and moves it to the front; progress
// activity counts as watching. Unknown titles are a no-op; a progress update
// without a prior Add has nothing to attach to.
func (s *Store) UpdateProgress(ctx context.Context, titleID string, episode int, progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)

	entry, idx, found := lo.FindIndexOf(entries, func(e domain.WatchHistoryEntry) bool {
		return e.TitleID == titleID
	})
	if !found {
		return
	}

	entry.CurrentEpisode = episode
	entry.ProgressPercent = progress
	entry.LastWatchedAt = s.now().UnixMilli()

	entries = append(entries[:idx], entries[idx+1:]...)
	entries = append([]domain.WatchHistoryEntry{entry}, entries...)

	s.save(ctx, entries)
}

// Remove deletes one title from the log. Unknown titles are a no-op.
func (s *Store) Remove(ctx context.Context, titleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	kept := lo.Reject(entries, func(e domain.WatchHistoryEntry, _ int) bool {
		return e.TitleID == titleID
	})
	if len(kept) == len(entries) {
		return
	}

	s.save(ctx, kept)
}

// Clear wipes the whole log.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(ctx, s.key); err != nil {
		s.logger.Warn("history clear failed", zap.Error(err))
	}
}

// load reads and decodes the log. Missing keys and corrupt payloads both
// read as an empty log; corrupt payloads are logged once per read.
func (s *Store) load(ctx context.Context) []domain.WatchHistoryEntry {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Warn("history read failed", zap.Error(err))
		}

		return []domain.WatchHistoryEntry{}
	}

	var entries []domain.WatchHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("history payload corrupt, starting fresh", zap.Error(err))

		return []domain.WatchHistoryEntry{}
	}
	if entries == nil {
		entries = []domain.WatchHistoryEntry{}
	}

	return entries
}

func (s *Store) save(ctx context.Context, entries []domain.WatchHistoryEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Warn("history encode failed", zap.Error(err))
		return
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("history write failed", zap.Error(err))
	}
}
