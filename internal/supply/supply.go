package supply

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"verusTicker/internal/chain"
	"verusTicker/internal/source"
)

// ConverterReserve is the native reserve held by one converter.
type ConverterReserve struct {
	Converter  string  `json:"converter"`
	Reserve    float64 `json:"vrsc_reserve"`
	CurrencyID string  `json:"currency_id"`
}

// LockedSupply summarizes the native coins locked inside converter baskets.
type LockedSupply struct {
	InConverters   float64            `json:"vrsc_in_converters"`
	ConverterCount int                `json:"converter_count"`
	Converters     []ConverterReserve `json:"converter_details"`
}

// Report is the supply summary served by the supply endpoint. Circulating
// supply excludes coins locked in converters.
type Report struct {
	TotalSupply       float64      `json:"total_supply"`
	CirculatingSupply float64      `json:"circulating_supply"`
	Locked            LockedSupply `json:"locked_supply"`
	Timestamp         string       `json:"timestamp"`
}

// currencyAPI is the slice of the chain client the reporter depends on.
type currencyAPI interface {
	GetCurrency(ctx context.Context, currency string) (chain.Currency, error)
}

// converterAPI lists the active converters with their reserves.
type converterAPI interface {
	DiscoverConverters(ctx context.Context) ([]source.Converter, error)
}

// Reporter assembles supply reports and caches them. Supply moves far slower
// than prices, so the cache TTL is minutes rather than seconds.
type Reporter struct {
	systemID   string
	ttl        time.Duration
	currencies currencyAPI
	converters converterAPI
	logger     *zap.Logger

	mu       sync.Mutex
	cached   *Report
	cachedAt time.Time
}

func NewReporter(systemID string, ttl time.Duration, currencies currencyAPI, converters converterAPI, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if systemID == "" {
		systemID = "VRSC"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Reporter{
		systemID:   systemID,
		ttl:        ttl,
		currencies: currencies,
		converters: converters,
		logger:     logger,
	}
}

// Report returns the supply summary, rebuilding it only when the cached copy
// has expired. A rebuild failure leaves the cache empty and surfaces the
// error; expired data is never served.
func (r *Reporter) Report(ctx context.Context) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && time.Since(r.cachedAt) < r.ttl {
		return *r.cached, nil
	}

	report, err := r.build(ctx)
	if err != nil {
		r.cached = nil
		return Report{}, err
	}

	r.cached = &report
	r.cachedAt = time.Now()

	r.logger.Info("supply report rebuilt",
		zap.Float64("total", report.TotalSupply),
		zap.Float64("locked", report.Locked.InConverters),
		zap.Int("converters", report.Locked.ConverterCount),
	)
	return report, nil
}

func (r *Reporter) build(ctx context.Context) (Report, error) {
	currency, err := r.currencies.GetCurrency(ctx, r.systemID)
	if err != nil {
		return Report{}, fmt.Errorf("get %s supply: %w", r.systemID, err)
	}

	converters, err := r.converters.DiscoverConverters(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("discover converters: %w", err)
	}

	locked := decimal.Zero
	details := make([]ConverterReserve, 0, len(converters))
	for _, conv := range converters {
		for _, reserve := range conv.Reserves {
			if reserve.Symbol != r.systemID || reserve.Reserves.Sign() <= 0 {
				continue
			}
			locked = locked.Add(reserve.Reserves)
			details = append(details, ConverterReserve{
				Converter:  conv.Name,
				Reserve:    reserve.Reserves.InexactFloat64(),
				CurrencyID: reserve.CurrencyID,
			})
			break
		}
	}

	total := decimal.NewFromFloat(currency.Supply)
	return Report{
		TotalSupply:       total.InexactFloat64(),
		CirculatingSupply: total.Sub(locked).InexactFloat64(),
		Locked: LockedSupply{
			InConverters:   locked.InexactFloat64(),
			ConverterCount: len(details),
			Converters:     details,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
