package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"verusTicker/internal/model"
)

// HeightFunc reports the current chain height.
type HeightFunc func(ctx context.Context) (uint64, error)

// SchedulerConfig holds the refresh trigger settings.
type SchedulerConfig struct {
	// Interval is the wall-clock refresh period, normally equal to the
	// cache TTL so staleness stays bounded even on a quiet chain.
	Interval time.Duration
	// PollInterval is how often the chain height is probed for the
	// block-driven trigger.
	PollInterval time.Duration
	// FetchTimeout bounds one refresh cycle end to end.
	FetchTimeout time.Duration
}

// Scheduler drives the store's refresh from two independent triggers: a
// fixed interval timer and chain height advancement. Both funnel into the
// store's single-flight Refresh, so simultaneous firing collapses into one
// cycle.
type Scheduler struct {
	cfg    SchedulerConfig
	store  *Store
	fetch  FetchFunc
	height HeightFunc
	logger *zap.Logger
}

func NewScheduler(cfg SchedulerConfig, store *Store, fetch FetchFunc, height HeightFunc, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = store.TTL()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = cfg.Interval / 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Scheduler{
		cfg:    cfg,
		store:  store,
		fetch:  fetch,
		height: height,
		logger: logger,
	}
}

// Run populates the cache once, then loops on both triggers until the
// context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.refresh(ctx, "startup")

	interval := time.NewTicker(s.cfg.Interval)
	defer interval.Stop()
	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-interval.C:
			s.refresh(ctx, "interval")
		case <-poll.C:
			s.CheckHeight(ctx)
		}
	}
}

// CheckHeight probes the chain height and triggers a refresh only when it
// advanced past the height of the cached snapshot. It reports whether a
// refresh was attempted.
func (s *Scheduler) CheckHeight(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.PollInterval)
	height, err := s.height(probeCtx)
	cancel()
	if err != nil {
		s.logger.Warn("height probe failed", zap.Error(err))
		return false
	}

	meta := s.store.Metadata()
	if height <= meta.Height {
		return false
	}

	s.logger.Debug("height advanced",
		zap.Uint64("cached", meta.Height),
		zap.Uint64("current", height),
	)
	s.refresh(ctx, "new_block")
	return true
}

func (s *Scheduler) refresh(ctx context.Context, trigger string) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	err := s.store.Refresh(refreshCtx, s.fetch)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrAlreadyRefreshing):
		// Triggers collapse into the in-flight cycle.
		s.logger.Debug("refresh already in flight", zap.String("trigger", trigger))
	default:
		// Previous snapshot stays authoritative; the next natural
		// trigger retries.
		s.logger.Warn("scheduled refresh failed",
			zap.String("trigger", trigger),
			zap.Error(err),
		)
	}
}
