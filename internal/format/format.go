package format

import (
	"fmt"

	"verusTicker/internal/model"
)

// Kind tags one of the fixed output schemas.
type Kind string

const (
	KindCoinGecko     Kind = "coingecko"
	KindCoinMarketCap Kind = "coinmarketcap"
	KindCMCIAddress   Kind = "coinmarketcap_iaddress"
	KindCoinpaprika   Kind = "coinpaprika"
)

// ParseKind validates a format tag.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindCoinGecko, KindCoinMarketCap, KindCMCIAddress, KindCoinpaprika:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrUnknownFormat, value)
	}
}

// Render maps a ticker set into the requested external shape. Adapters are
// pure: the same set renders to the same bytes every time, and the set is
// never mutated.
func Render(kind Kind, set *model.TickerSet, table *SymbolTable) (any, error) {
	switch kind {
	case KindCoinGecko:
		return RenderCoinGecko(set, table), nil
	case KindCoinMarketCap:
		return RenderCoinMarketCap(set, table), nil
	case KindCMCIAddress:
		return RenderCMCIAddress(set, table), nil
	case KindCoinpaprika:
		return RenderCoinpaprika(set, table), nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownFormat, string(kind))
	}
}
