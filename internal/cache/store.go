package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"verusTicker/internal/metrics"
	"verusTicker/internal/model"
)

// FetchFunc produces a fresh ticker set. It runs outside the store's
// synchronization, so a slow daemon never stalls readers.
type FetchFunc func(ctx context.Context) (model.TickerSet, error)

// Store holds the most recently published ticker snapshot for one tracked
// chain. Reads are non-blocking and always see a fully published set;
// refreshes are serialized through a single in-flight flag, and a failed
// refresh leaves the previous snapshot untouched.
type Store struct {
	ttl    time.Duration
	logger *zap.Logger

	snapshot   atomic.Pointer[model.TickerSet]
	refreshing atomic.Bool

	mu          sync.RWMutex
	lastRefresh time.Time
	height      uint64
	lastErr     string
}

// NewStore builds an empty store with the given staleness TTL.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Store{ttl: ttl, logger: logger}
}

// TTL returns the configured staleness bound.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Read returns the most recently published snapshot. It never blocks, and it
// serves stale-but-valid data while a refresh is in flight; staleness is
// reported through Metadata, not by withholding data.
func (s *Store) Read() (*model.TickerSet, bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, false
	}
	return snap, true
}

// Refresh runs one refresh cycle: fetch, then publish atomically. At most
// one refresh executes at a time; a call that arrives while another is in
// flight returns ErrAlreadyRefreshing without blocking or queuing. On fetch
// failure the previous snapshot remains visible and only the metadata
// records the error.
func (s *Store) Refresh(ctx context.Context, fetch FetchFunc) error {
	if !s.refreshing.CompareAndSwap(false, true) {
		return model.ErrAlreadyRefreshing
	}
	defer s.refreshing.Store(false)

	started := time.Now()
	set, err := fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()

		metrics.RefreshTotal.WithLabelValues("error").Inc()
		s.logger.Warn("refresh failed, previous snapshot retained", zap.Error(err))
		return fmt.Errorf("refresh: %w", err)
	}

	s.snapshot.Store(&set)

	s.mu.Lock()
	s.lastRefresh = set.Timestamp
	s.height = set.Height
	s.lastErr = ""
	s.mu.Unlock()

	metrics.RefreshTotal.WithLabelValues("ok").Inc()
	metrics.RefreshDuration.Observe(time.Since(started).Seconds())
	metrics.CachedPairs.Set(float64(len(set.Tickers)))

	s.logger.Info("snapshot published",
		zap.Uint64("height", set.Height),
		zap.Int("pairs", len(set.Tickers)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

// Invalidate drops the published snapshot and resets metadata. The next
// trigger repopulates the cache.
func (s *Store) Invalidate() {
	s.snapshot.Store(nil)

	s.mu.Lock()
	s.lastRefresh = time.Time{}
	s.height = 0
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info("cache invalidated")
}

// Metadata reports the state of the cache slot.
func (s *Store) Metadata() model.CacheMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := model.CacheMetadata{
		LastRefresh: s.lastRefresh,
		Height:      s.height,
		Refreshing:  s.refreshing.Load(),
		LastError:   s.lastErr,
	}
	if snap := s.snapshot.Load(); snap != nil {
		meta.Pairs = len(snap.Tickers)
	}
	if !s.lastRefresh.IsZero() {
		meta.Age = time.Since(s.lastRefresh)
		meta.Stale = meta.Age > s.ttl
	}
	return meta
}
