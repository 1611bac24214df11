package format

import "verusTicker/internal/model"

// CoinGeckoTicker is one entry of the CoinGecko DEX ticker list. All
// numeric fields are 8-decimal strings.
type CoinGeckoTicker struct {
	TickerID       string `json:"ticker_id"`
	PoolID         string `json:"pool_id"`
	BaseCurrency   string `json:"base_currency"`
	TargetCurrency string `json:"target_currency"`
	LastPrice      string `json:"last_price"`
	BaseVolume     string `json:"base_volume"`
	TargetVolume   string `json:"target_volume"`
}

// RenderCoinGecko maps a ticker set into the CoinGecko list shape, in the
// set's stable pair order.
func RenderCoinGecko(set *model.TickerSet, table *SymbolTable) []CoinGeckoTicker {
	tickers := make([]CoinGeckoTicker, 0, len(set.Tickers))
	for _, t := range set.Tickers {
		base := table.DisplaySymbol(t.Base)
		target := table.DisplaySymbol(t.Target)
		tickers = append(tickers, CoinGeckoTicker{
			TickerID:       base + "-" + target,
			PoolID:         t.PoolID,
			BaseCurrency:   base,
			TargetCurrency: target,
			LastPrice:      t.WeightedPrice.StringFixed(8),
			BaseVolume:     t.BaseVolume.StringFixed(8),
			TargetVolume:   t.TargetVolume.StringFixed(8),
		})
	}
	return tickers
}
