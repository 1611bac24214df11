package format

import (
	"strconv"

	"verusTicker/internal/model"
)

// CMCTicker is one entry of the CoinMarketCap DEX object. Entries are keyed
// by a stringified 1-based index in the set's stable pair order.
type CMCTicker struct {
	BaseID      string `json:"base_id"`
	BaseName    string `json:"base_name"`
	BaseSymbol  string `json:"base_symbol"`
	QuoteID     string `json:"quote_id"`
	QuoteName   string `json:"quote_name"`
	QuoteSymbol string `json:"quote_symbol"`
	LastPrice   string `json:"last_price"`
	BaseVolume  string `json:"base_volume"`
	QuoteVolume string `json:"quote_volume"`
}

// RenderCoinMarketCap maps a ticker set into the CMC object shape, using
// ERC20 contract addresses as identifiers where the currency is exported.
func RenderCoinMarketCap(set *model.TickerSet, table *SymbolTable) map[string]CMCTicker {
	out := make(map[string]CMCTicker, len(set.Tickers))
	for i, t := range set.Tickers {
		out[strconv.Itoa(i+1)] = cmcTicker(t, table, table.ExternalID(t.Base), table.ExternalID(t.Target))
	}
	return out
}

// RenderCMCIAddress is the I-Address variant: native chain identifiers
// replace the ERC20 addresses. A pair with an unmapped currency is omitted,
// uniformly, rather than rendered with a null identifier.
func RenderCMCIAddress(set *model.TickerSet, table *SymbolTable) map[string]CMCTicker {
	out := make(map[string]CMCTicker, len(set.Tickers))
	index := 0
	for _, t := range set.Tickers {
		baseID, okBase := table.IAddress(t.Base)
		quoteID, okQuote := table.IAddress(t.Target)
		if !okBase || !okQuote {
			continue
		}
		index++
		out[strconv.Itoa(index)] = cmcTicker(t, table, baseID, quoteID)
	}
	return out
}

func cmcTicker(t model.AggregatedTicker, table *SymbolTable, baseID, quoteID string) CMCTicker {
	base := table.DisplaySymbol(t.Base)
	quote := table.DisplaySymbol(t.Target)
	return CMCTicker{
		BaseID:      baseID,
		BaseName:    base,
		BaseSymbol:  base,
		QuoteID:     quoteID,
		QuoteName:   quote,
		QuoteSymbol: quote,
		LastPrice:   t.WeightedPrice.StringFixed(8),
		BaseVolume:  t.BaseVolume.StringFixed(8),
		QuoteVolume: t.TargetVolume.StringFixed(8),
	}
}
