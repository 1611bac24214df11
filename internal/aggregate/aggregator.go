package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"verusTicker/internal/model"
)

// Aggregator turns raw pool records into a normalized ticker set. It is
// deterministic for a given input aside from the snapshot timestamp.
type Aggregator struct {
	logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups records by canonical pair key and combines each group
// into one volume-weighted ticker. Malformed records are filtered, never
// fatal; pairs whose combined quote volume is zero are dropped.
func (a *Aggregator) Aggregate(records []model.RawPoolRecord, height uint64) model.TickerSet {
	// The daemon does not promise a stable record order, so impose one
	// before open prices are derived from it.
	ordered := make([]model.RawPoolRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Converter != ordered[j].Converter {
			return ordered[i].Converter < ordered[j].Converter
		}
		if ordered[i].PoolID != ordered[j].PoolID {
			return ordered[i].PoolID < ordered[j].PoolID
		}
		if ordered[i].BaseCurrency != ordered[j].BaseCurrency {
			return ordered[i].BaseCurrency < ordered[j].BaseCurrency
		}
		return ordered[i].TargetCurrency < ordered[j].TargetCurrency
	})

	groups := make(map[model.PairKey]*Accumulator)
	var filtered int
	for _, record := range ordered {
		if !record.Valid() {
			filtered++
			a.logger.Warn("malformed pool record dropped",
				zap.String("converter", record.Converter),
				zap.String("base", record.BaseCurrency),
				zap.String("target", record.TargetCurrency),
			)
			continue
		}

		key, swapped := model.NewPairKey(record.BaseCurrency, record.TargetCurrency)
		price := record.LastPrice
		baseVolume := record.BaseVolume
		targetVolume := record.TargetVolume
		if swapped {
			price = decimal.NewFromInt(1).Div(price)
			baseVolume, targetVolume = targetVolume, baseVolume
		}

		if acc, ok := groups[key]; ok {
			acc.Add(price, baseVolume, targetVolume)
		} else {
			groups[key] = NewAccumulator(key, record.PoolID, price, baseVolume, targetVolume)
		}
	}

	tickers := make([]model.AggregatedTicker, 0, len(groups))
	for _, acc := range groups {
		ticker, ok := acc.Ticker()
		if !ok {
			continue
		}
		tickers = append(tickers, ticker)
	}
	sort.Slice(tickers, func(i, j int) bool {
		return tickers[i].Key().Less(tickers[j].Key())
	})

	a.logger.Info("aggregate complete",
		zap.Int("records", len(records)),
		zap.Int("filtered", filtered),
		zap.Int("pairs", len(tickers)),
		zap.Uint64("height", height),
	)

	return model.TickerSet{
		Tickers:   tickers,
		Timestamp: time.Now().UTC(),
		Height:    height,
	}
}
