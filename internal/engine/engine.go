package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"verusTicker/internal/aggregate"
	"verusTicker/internal/cache"
	"verusTicker/internal/format"
	"verusTicker/internal/model"
	"verusTicker/internal/source"
)

// Engine ties the snapshot source, the aggregator, and the cache store into
// the read paths the HTTP layer consumes. One engine serves one tracked
// chain; collaborators are passed in explicitly, never global.
type Engine struct {
	store      *cache.Store
	src        source.Source
	aggregator *aggregate.Aggregator
	table      *format.SymbolTable
	logger     *zap.Logger
}

func New(store *cache.Store, src source.Source, aggregator *aggregate.Aggregator, table *format.SymbolTable, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      store,
		src:        src,
		aggregator: aggregator,
		table:      table,
		logger:     logger,
	}
}

// Store exposes the cache store for the scheduler and health reporter.
func (e *Engine) Store() *cache.Store {
	return e.store
}

// BuildSnapshot fetches a converter snapshot and aggregates it into a
// ticker set. It is the fetch function behind every refresh trigger.
func (e *Engine) BuildSnapshot(ctx context.Context) (model.TickerSet, error) {
	snap, err := e.src.Fetch(ctx)
	if err != nil {
		return model.TickerSet{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	return e.aggregator.Aggregate(snap.Records, snap.Height), nil
}

// ReadCached renders the cached snapshot into the requested shape. It never
// triggers a refresh and returns ErrNoSnapshot before the first successful
// cycle.
func (e *Engine) ReadCached(kind format.Kind) (any, error) {
	set, ok := e.store.Read()
	if !ok {
		return nil, model.ErrNoSnapshot
	}
	return format.Render(kind, set, e.table)
}

// ReadLive forces a refresh and then reads. A forced refresh that fails
// surfaces the error; when another refresh is already in flight its outcome
// is served instead of starting a second cycle.
func (e *Engine) ReadLive(ctx context.Context, kind format.Kind) (any, error) {
	err := e.store.Refresh(ctx, e.BuildSnapshot)
	if err != nil && !errors.Is(err, model.ErrAlreadyRefreshing) {
		return nil, err
	}
	return e.ReadCached(kind)
}
