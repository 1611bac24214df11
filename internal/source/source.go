package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"verusTicker/internal/chain"
	"verusTicker/internal/model"
)

// Snapshot is one fetch result: the raw pool records of every tracked
// converter plus the chain height they were extracted at.
type Snapshot struct {
	Records []model.RawPoolRecord
	Height  uint64
}

// Source produces converter snapshots. Implementations may be slow
// (seconds) and may fail transiently.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
	Ping(ctx context.Context) error
}

// daemonAPI is the slice of the chain client the source depends on.
type daemonAPI interface {
	BlockHeight(ctx context.Context) (uint64, error)
	GetCurrencyConverters(ctx context.Context, systemID string) ([]chain.RawConverter, error)
	GetCurrencyVolumes(ctx context.Context, converter, blockRange, volumeCurrency string) ([]chain.VolumePair, float64, error)
}

// Config holds fetch settings for the converter source.
type Config struct {
	SystemID         string
	BlocksPerDay     uint64
	MinNativeReserve decimal.Decimal
	MaxRetries       int
	RetryBackoff     time.Duration
}

// ConverterSource fetches converter snapshots from a Verus-family daemon.
type ConverterSource struct {
	cfg      Config
	client   daemonAPI
	resolver SymbolResolver
	logger   *zap.Logger
}

// NewConverterSource builds a source over the given daemon client.
func NewConverterSource(cfg Config, client daemonAPI, resolver SymbolResolver, logger *zap.Logger) *ConverterSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SystemID == "" {
		cfg.SystemID = "VRSC"
	}
	if cfg.BlocksPerDay == 0 {
		cfg.BlocksPerDay = 1440
	}
	return &ConverterSource{
		cfg:      cfg,
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}

// Ping probes daemon reachability.
func (s *ConverterSource) Ping(ctx context.Context) error {
	_, err := s.client.BlockHeight(ctx)
	if err != nil {
		return wrapSourceErr(ctx, err)
	}
	return nil
}

// Fetch discovers the active converters and extracts one raw pool record per
// directional currency pair with 24h volume. All volume windows share the
// height observed at the start of the fetch.
func (s *ConverterSource) Fetch(ctx context.Context) (Snapshot, error) {
	height, err := s.blockHeightWithRetry(ctx)
	if err != nil {
		return Snapshot{}, wrapSourceErr(ctx, err)
	}

	converters, err := s.DiscoverConverters(ctx)
	if err != nil {
		return Snapshot{}, wrapSourceErr(ctx, err)
	}
	if len(converters) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no active converters", model.ErrSourceUnavailable)
	}

	start := uint64(0)
	if height > s.cfg.BlocksPerDay {
		start = height - s.cfg.BlocksPerDay
	}
	blockRange := fmt.Sprintf("%d, %d, %d", start, height, s.cfg.BlocksPerDay)

	var records []model.RawPoolRecord
	for _, conv := range converters {
		convRecords, err := s.fetchConverter(ctx, conv, blockRange)
		if err != nil {
			// A single failing converter degrades the snapshot, it
			// does not void it.
			s.logger.Warn("converter fetch failed",
				zap.String("converter", conv.Name),
				zap.Error(err),
			)
			continue
		}
		records = append(records, convRecords...)
	}

	if len(records) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no volume data in window", model.ErrSourceUnavailable)
	}

	s.logger.Info("snapshot fetched",
		zap.Uint64("height", height),
		zap.Int("converters", len(converters)),
		zap.Int("records", len(records)),
	)

	return Snapshot{Records: records, Height: height}, nil
}

// fetchConverter runs one getcurrencystate call per tracked currency of the
// converter and assembles directional pair records from the volume entries.
func (s *ConverterSource) fetchConverter(ctx context.Context, conv Converter, blockRange string) ([]model.RawPoolRecord, error) {
	currencies := conv.currencies()

	volumes := make(map[string][]chain.VolumePair, len(currencies))
	for _, currency := range currencies {
		pairs, _, err := s.currencyVolumesWithRetry(ctx, conv.Name, blockRange, currency)
		if err != nil {
			return nil, fmt.Errorf("currency volumes %s: %w", currency, err)
		}
		volumes[currency] = pairs
	}

	var records []model.RawPoolRecord
	for _, base := range currencies {
		for _, target := range currencies {
			if base == target {
				continue
			}

			baseVolume := findVolume(volumes[base], base, target)
			targetVolume := findVolume(volumes[target], base, target)
			if baseVolume.Sign() <= 0 && targetVolume.Sign() <= 0 {
				continue
			}

			closePrice := findClose(volumes[target], base, target)
			records = append(records, model.RawPoolRecord{
				Converter:      conv.Name,
				ConverterID:    conv.CurrencyID,
				PoolID:         conv.CurrencyID,
				BaseCurrency:   base,
				TargetCurrency: target,
				BaseReserve:    conv.reserveFor(base),
				TargetReserve:  conv.reserveFor(target),
				BaseVolume:     baseVolume,
				TargetVolume:   targetVolume,
				LastPrice:      invert(closePrice),
			})
		}
	}
	return records, nil
}

func (s *ConverterSource) blockHeightWithRetry(ctx context.Context) (uint64, error) {
	var height uint64
	err := withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		height, err = s.client.BlockHeight(ctx)
		if err != nil {
			s.logger.Warn("block height fetch failed", zap.Error(err))
		}
		return err
	})
	return height, err
}

func (s *ConverterSource) currencyVolumesWithRetry(ctx context.Context, converter, blockRange, currency string) ([]chain.VolumePair, float64, error) {
	var pairs []chain.VolumePair
	var total float64
	err := withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		pairs, total, err = s.client.GetCurrencyVolumes(ctx, converter, blockRange, currency)
		if err != nil {
			s.logger.Warn("currency volumes fetch failed",
				zap.String("converter", converter),
				zap.String("currency", currency),
				zap.Error(err),
			)
		}
		return err
	})
	return pairs, total, err
}

func findVolume(pairs []chain.VolumePair, from, to string) decimal.Decimal {
	for _, pair := range pairs {
		if pair.Currency == from && pair.ConvertTo == to {
			return decimal.NewFromFloat(pair.Volume)
		}
	}
	return decimal.Zero
}

func findClose(pairs []chain.VolumePair, from, to string) decimal.Decimal {
	for _, pair := range pairs {
		if pair.Currency == from && pair.ConvertTo == to {
			return decimal.NewFromFloat(pair.Close)
		}
	}
	return decimal.Zero
}

// invert converts the daemon's internal base-per-target rate into the
// trading-pair orientation (target units per base unit).
func invert(price decimal.Decimal) decimal.Decimal {
	if price.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(price)
}

func wrapSourceErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrSourceTimeout, err)
	}
	return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
}
