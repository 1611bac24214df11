package aggregate

import (
	"github.com/shopspring/decimal"

	"verusTicker/internal/model"
)

// Accumulator folds the contributing pool quotes for one canonical currency
// pair. Open keeps the first price seen in stable input order; high and low
// track the extremes across contributors.
type Accumulator struct {
	Key          model.PairKey
	PoolID       string
	Open         decimal.Decimal
	High         decimal.Decimal
	Low          decimal.Decimal
	BaseVolume   decimal.Decimal
	TargetVolume decimal.Decimal
	priceWeight  decimal.Decimal
	weight       decimal.Decimal
	Contributors int
}

// NewAccumulator seeds an accumulator from the first contributing quote.
func NewAccumulator(key model.PairKey, poolID string, price, baseVolume, targetVolume decimal.Decimal) *Accumulator {
	acc := &Accumulator{
		Key:          key,
		PoolID:       poolID,
		Open:         price,
		High:         price,
		Low:          price,
		BaseVolume:   decimal.Zero,
		TargetVolume: decimal.Zero,
		priceWeight:  decimal.Zero,
		weight:       decimal.Zero,
	}
	acc.add(price, baseVolume, targetVolume)
	return acc
}

// Add folds another contributing quote into the accumulator.
func (a *Accumulator) Add(price, baseVolume, targetVolume decimal.Decimal) {
	if price.Cmp(a.High) > 0 {
		a.High = price
	}
	if price.Cmp(a.Low) < 0 {
		a.Low = price
	}
	a.add(price, baseVolume, targetVolume)
}

func (a *Accumulator) add(price, baseVolume, targetVolume decimal.Decimal) {
	a.BaseVolume = a.BaseVolume.Add(baseVolume)
	a.TargetVolume = a.TargetVolume.Add(targetVolume)
	a.priceWeight = a.priceWeight.Add(price.Mul(targetVolume))
	a.weight = a.weight.Add(targetVolume)
	a.Contributors++
}

// Ticker finalizes the accumulator into an aggregated ticker. The second
// return value is false when the combined quote volume is zero, in which
// case the pair carries no usable price and must be dropped.
func (a *Accumulator) Ticker() (model.AggregatedTicker, bool) {
	if a.weight.Sign() <= 0 {
		return model.AggregatedTicker{}, false
	}

	return model.AggregatedTicker{
		Base:          a.Key.Base,
		Target:        a.Key.Target,
		PoolID:        a.PoolID,
		WeightedPrice: a.priceWeight.Div(a.weight),
		BaseVolume:    a.BaseVolume,
		TargetVolume:  a.TargetVolume,
		Open:          a.Open,
		High:          a.High,
		Low:           a.Low,
		Contributors:  a.Contributors,
	}, true
}
