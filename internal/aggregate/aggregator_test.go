package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"verusTicker/internal/model"
)

func poolRecord(converter, base, target string, price, baseVol, targetVol float64) model.RawPoolRecord {
	return model.RawPoolRecord{
		Converter:      converter,
		ConverterID:    "i" + converter,
		PoolID:         converter,
		BaseCurrency:   base,
		TargetCurrency: target,
		BaseReserve:    decimal.NewFromInt(1000),
		TargetReserve:  decimal.NewFromInt(1000),
		BaseVolume:     decimal.NewFromFloat(baseVol),
		TargetVolume:   decimal.NewFromFloat(targetVol),
		LastPrice:      decimal.NewFromFloat(price),
	}
}

func TestAggregateWeightedPrice(t *testing.T) {
	agg := NewAggregator(nil)

	// Input arrives in reverse converter order; the imposed stable order
	// must still pick pool A's price as the open.
	records := []model.RawPoolRecord{
		poolRecord("Bridge.vETH", "VRSC", "DAI.vETH", 2.2, 22.72, 50),
		poolRecord("Bridge.vARRR", "VRSC", "DAI.vETH", 2.0, 50, 100),
	}

	set := agg.Aggregate(records, 3140000)
	if len(set.Tickers) != 1 {
		t.Fatalf("expected one pair, got %d", len(set.Tickers))
	}

	ticker := set.Tickers[0]
	want := decimal.NewFromInt(310).Div(decimal.NewFromInt(150))
	if !ticker.WeightedPrice.Equal(want) {
		t.Fatalf("weighted price mismatch: %s != %s", ticker.WeightedPrice, want)
	}
	if !ticker.Open.Equal(decimal.NewFromFloat(2.0)) {
		t.Fatalf("open should come from first record in stable order, got %s", ticker.Open)
	}
	if !ticker.High.Equal(decimal.NewFromFloat(2.2)) || !ticker.Low.Equal(decimal.NewFromFloat(2.0)) {
		t.Fatalf("high/low mismatch: %s / %s", ticker.High, ticker.Low)
	}
	if !ticker.TargetVolume.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("target volume mismatch: %s", ticker.TargetVolume)
	}
	if ticker.Contributors != 2 {
		t.Fatalf("expected 2 contributors, got %d", ticker.Contributors)
	}
	if set.Height != 3140000 {
		t.Fatalf("height not carried through: %d", set.Height)
	}
}

func TestAggregateWeightedPriceBounded(t *testing.T) {
	agg := NewAggregator(nil)

	records := []model.RawPoolRecord{
		poolRecord("a", "VRSC", "DAI.vETH", 1.8, 10, 33),
		poolRecord("b", "VRSC", "DAI.vETH", 2.5, 10, 7),
		poolRecord("c", "VRSC", "DAI.vETH", 2.1, 10, 120),
	}

	set := agg.Aggregate(records, 1)
	ticker := set.Tickers[0]
	if ticker.WeightedPrice.Cmp(ticker.Low) < 0 || ticker.WeightedPrice.Cmp(ticker.High) > 0 {
		t.Fatalf("weighted price %s outside [%s, %s]", ticker.WeightedPrice, ticker.Low, ticker.High)
	}
}

func TestAggregateCollapsesReversedOrientation(t *testing.T) {
	agg := NewAggregator(nil)

	// Second pool quotes the same pair the other way round; its price must
	// be inverted and its volumes swapped before folding.
	records := []model.RawPoolRecord{
		poolRecord("a", "VRSC", "DAI.vETH", 2.0, 50, 100),
		poolRecord("b", "DAI.vETH", "VRSC", 0.5, 110, 55),
	}

	set := agg.Aggregate(records, 1)
	if len(set.Tickers) != 1 {
		t.Fatalf("orientations should collapse to one pair, got %d", len(set.Tickers))
	}

	ticker := set.Tickers[0]
	if ticker.Base != "VRSC" || ticker.Target != "DAI.vETH" {
		t.Fatalf("unexpected canonical pair %s-%s", ticker.Base, ticker.Target)
	}
	if !ticker.WeightedPrice.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("weighted price mismatch: %s", ticker.WeightedPrice)
	}
	if !ticker.BaseVolume.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("base volume mismatch: %s", ticker.BaseVolume)
	}
	if !ticker.TargetVolume.Equal(decimal.NewFromInt(210)) {
		t.Fatalf("target volume mismatch: %s", ticker.TargetVolume)
	}
	if ticker.Contributors != 2 {
		t.Fatalf("expected 2 contributors, got %d", ticker.Contributors)
	}
}

func TestAggregateFiltersMalformed(t *testing.T) {
	agg := NewAggregator(nil)

	zeroVolume := poolRecord("a", "MKR.vETH", "VRSC", 0.001, 5, 0)
	missingTarget := poolRecord("b", "VRSC", "", 2.0, 10, 10)
	negativePrice := poolRecord("c", "tBTC.vETH", "VRSC", -1, 10, 10)
	valid := poolRecord("d", "VRSC", "DAI.vETH", 2.0, 50, 100)

	set := agg.Aggregate([]model.RawPoolRecord{zeroVolume, missingTarget, negativePrice, valid}, 1)
	if len(set.Tickers) != 1 {
		t.Fatalf("malformed records must be dropped without aborting, got %d pairs", len(set.Tickers))
	}
	if set.Tickers[0].Base != "VRSC" || set.Tickers[0].Target != "DAI.vETH" {
		t.Fatalf("unexpected surviving pair %s-%s", set.Tickers[0].Base, set.Tickers[0].Target)
	}
}

func TestAggregateSortedOutput(t *testing.T) {
	agg := NewAggregator(nil)

	records := []model.RawPoolRecord{
		poolRecord("a", "tBTC.vETH", "VRSC", 0.00002, 1, 1),
		poolRecord("a", "VRSC", "DAI.vETH", 2.0, 1, 1),
		poolRecord("a", "VRSC", "MKR.vETH", 0.001, 1, 1),
	}

	set := agg.Aggregate(records, 1)
	for i := 1; i < len(set.Tickers); i++ {
		if !set.Tickers[i-1].Key().Less(set.Tickers[i].Key()) {
			t.Fatalf("tickers out of order at %d: %v then %v", i, set.Tickers[i-1].Key(), set.Tickers[i].Key())
		}
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := NewAggregator(nil)

	set := agg.Aggregate(nil, 42)
	if len(set.Tickers) != 0 {
		t.Fatalf("expected no tickers, got %d", len(set.Tickers))
	}
	if set.Height != 42 {
		t.Fatalf("height not carried through: %d", set.Height)
	}
	if set.Timestamp.IsZero() {
		t.Fatalf("timestamp must be set")
	}
}
