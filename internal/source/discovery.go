package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"verusTicker/internal/chain"
)

// Reserve is one reserve currency of a discovered converter.
type Reserve struct {
	Symbol     string          `json:"symbol"`
	CurrencyID string          `json:"currency_id"`
	Weight     float64         `json:"weight"`
	Reserves   decimal.Decimal `json:"reserves"`
}

// Converter is a discovered liquidity basket currency together with its
// reserve currencies.
type Converter struct {
	Name       string          `json:"name"`
	CurrencyID string          `json:"currency_id"`
	Supply     decimal.Decimal `json:"supply"`
	Reserves   []Reserve       `json:"reserve_currencies"`
}

// SymbolResolver maps a native currency id to a display symbol. The id is
// returned unchanged when no mapping exists.
type SymbolResolver interface {
	SymbolByID(currencyID string) string
}

// DiscoverConverters lists the converters holding reserves of the system
// currency and keeps those whose native reserve meets the configured
// minimum; dust baskets only add noise to the ticker output.
func (s *ConverterSource) DiscoverConverters(ctx context.Context) ([]Converter, error) {
	raw, err := s.client.GetCurrencyConverters(ctx, s.cfg.SystemID)
	if err != nil {
		return nil, fmt.Errorf("get currency converters: %w", err)
	}

	converters := make([]Converter, 0, len(raw))
	skipped := 0
	for _, rc := range raw {
		conv := s.buildConverter(rc)
		if conv.Name == "" || conv.CurrencyID == "" {
			skipped++
			continue
		}
		if len(conv.Reserves) < 2 {
			skipped++
			continue
		}
		if !s.meetsNativeMinimum(conv) {
			skipped++
			continue
		}
		converters = append(converters, conv)
	}

	sort.Slice(converters, func(i, j int) bool {
		return converters[i].Name < converters[j].Name
	})

	if skipped > 0 {
		s.logger.Debug("converters skipped during discovery", zap.Int("skipped", skipped))
	}
	return converters, nil
}

func (s *ConverterSource) buildConverter(rc chain.RawConverter) Converter {
	conv := Converter{
		Name:       rc.FullyQualifiedName,
		CurrencyID: rc.CurrencyID,
		Supply:     decimal.NewFromFloat(rc.State.Supply),
	}
	for _, reserve := range rc.State.ReserveCurrencies {
		symbol := reserve.CurrencyID
		if s.resolver != nil {
			symbol = s.resolver.SymbolByID(reserve.CurrencyID)
		}
		conv.Reserves = append(conv.Reserves, Reserve{
			Symbol:     symbol,
			CurrencyID: reserve.CurrencyID,
			Weight:     reserve.Weight,
			Reserves:   decimal.NewFromFloat(reserve.Reserves),
		})
	}
	return conv
}

func (s *ConverterSource) meetsNativeMinimum(conv Converter) bool {
	if s.cfg.MinNativeReserve.Sign() <= 0 {
		return true
	}
	for _, reserve := range conv.Reserves {
		if reserve.Symbol == s.cfg.SystemID {
			return reserve.Reserves.Cmp(s.cfg.MinNativeReserve) >= 0
		}
	}
	return false
}

// reserveFor returns the tracked reserve depth for a currency inside the
// converter. The converter's own currency is backed by its supply.
func (c Converter) reserveFor(symbol string) decimal.Decimal {
	if symbol == c.Name {
		return c.Supply
	}
	for _, reserve := range c.Reserves {
		if reserve.Symbol == symbol {
			return reserve.Reserves
		}
	}
	return decimal.Zero
}

// currencies returns the tradeable currencies of the converter: the basket
// currency itself plus every reserve, in reserve order.
func (c Converter) currencies() []string {
	out := make([]string, 0, len(c.Reserves)+1)
	out = append(out, c.Name)
	for _, reserve := range c.Reserves {
		out = append(out, reserve.Symbol)
	}
	return out
}
