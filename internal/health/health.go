package health

import (
	"context"
	"time"

	"verusTicker/internal/cache"
)

// Prober checks snapshot source reachability.
type Prober interface {
	Ping(ctx context.Context) error
}

// Report is the status summary served by the health endpoint.
type Report struct {
	Status         string  `json:"status"`
	Reachable      bool    `json:"rpc_reachable"`
	BlockHeight    uint64  `json:"block_height"`
	LastRefreshAge float64 `json:"last_refresh_age_seconds"`
	LastRefreshAt  string  `json:"last_refresh_at,omitempty"`
	LastError      string  `json:"last_error,omitempty"`
	Refreshing     bool    `json:"refreshing"`
	Stale          bool    `json:"stale"`
	Pairs          int     `json:"pairs"`
	TTLSeconds     float64 `json:"ttl_seconds"`
}

// Reporter reads cache metadata and probes the data source. It never
// mutates cache state.
type Reporter struct {
	store  *cache.Store
	prober Prober
}

func NewReporter(store *cache.Store, prober Prober) *Reporter {
	return &Reporter{store: store, prober: prober}
}

// Report assembles the current status. The service is healthy when the
// daemon answers and the cache holds a fresh, error-free snapshot, and
// degraded otherwise.
func (r *Reporter) Report(ctx context.Context) Report {
	meta := r.store.Metadata()

	report := Report{
		BlockHeight:    meta.Height,
		LastRefreshAge: meta.Age.Seconds(),
		LastError:      meta.LastError,
		Refreshing:     meta.Refreshing,
		Stale:          meta.Stale,
		Pairs:          meta.Pairs,
		TTLSeconds:     r.store.TTL().Seconds(),
	}
	if !meta.LastRefresh.IsZero() {
		report.LastRefreshAt = meta.LastRefresh.UTC().Format(time.RFC3339)
	}

	if r.prober != nil {
		report.Reachable = r.prober.Ping(ctx) == nil
	}

	if report.Reachable && !meta.Stale && meta.LastError == "" && meta.Pairs > 0 {
		report.Status = "healthy"
	} else {
		report.Status = "degraded"
	}
	return report
}
