package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregatedTicker is the combined quote for one currency pair across every
// contributing converter pool.
type AggregatedTicker struct {
	Base          string
	Target        string
	PoolID        string
	WeightedPrice decimal.Decimal
	BaseVolume    decimal.Decimal
	TargetVolume  decimal.Decimal
	Open          decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Contributors  int
}

// Key returns the canonical pair key for the ticker.
func (t AggregatedTicker) Key() PairKey {
	return PairKey{Base: t.Base, Target: t.Target}
}

// TickerSet is an immutable snapshot of aggregated tickers, ordered by pair
// key. Once published into the cache store it is only ever replaced
// wholesale, never mutated; format adapters receive read-only references.
type TickerSet struct {
	Tickers   []AggregatedTicker
	Timestamp time.Time
	Height    uint64
}

// CacheMetadata describes the state of a cache slot. It is mutated only by
// the store under its own synchronization and read by the health reporter
// and the staleness checks on the read path.
type CacheMetadata struct {
	LastRefresh time.Time
	Height      uint64
	Refreshing  bool
	LastError   string
	Stale       bool
	Age         time.Duration
	Pairs       int
}
