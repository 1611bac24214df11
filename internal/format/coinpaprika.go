package format

import "verusTicker/internal/model"

// CoinpaprikaTicker is one entry of the Coinpaprika ticker array. Both symbol
// fields carry the dash-joined display pair.
type CoinpaprikaTicker struct {
	Symbol     string `json:"symbol"`
	SymbolName string `json:"symbolName"`
	Volume     string `json:"volume"`
	Last       string `json:"last"`
	High       string `json:"high"`
	Low        string `json:"low"`
	Open       string `json:"open"`
}

// CoinpaprikaData wraps the ticker array with the snapshot time in epoch
// milliseconds.
type CoinpaprikaData struct {
	Time   int64               `json:"time"`
	Ticker []CoinpaprikaTicker `json:"ticker"`
}

// CoinpaprikaResponse is the Coinpaprika envelope.
type CoinpaprikaResponse struct {
	Code string          `json:"code"`
	Data CoinpaprikaData `json:"data"`
}

// RenderCoinpaprika maps a ticker set into the Coinpaprika shape. The time
// field comes from the snapshot, keeping the adapter pure.
func RenderCoinpaprika(set *model.TickerSet, table *SymbolTable) CoinpaprikaResponse {
	tickers := make([]CoinpaprikaTicker, 0, len(set.Tickers))
	for _, t := range set.Tickers {
		pair := table.DisplaySymbol(t.Base) + "-" + table.DisplaySymbol(t.Target)
		tickers = append(tickers, CoinpaprikaTicker{
			Symbol:     pair,
			SymbolName: pair,
			Volume:     t.BaseVolume.StringFixed(8),
			Last:       t.WeightedPrice.StringFixed(8),
			High:       t.High.StringFixed(8),
			Low:        t.Low.StringFixed(8),
			Open:       t.Open.StringFixed(8),
		})
	}
	return CoinpaprikaResponse{
		Code: "200000",
		Data: CoinpaprikaData{
			Time:   set.Timestamp.UnixMilli(),
			Ticker: tickers,
		},
	}
}
