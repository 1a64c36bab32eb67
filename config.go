package loadingcache

import (
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// Metric names reported to Config.Stats. These are internal
// instrumentation hooks, not an exposed metrics protocol.
const (
	MetricHit        = "loadingcache_hit"
	MetricStaleHit   = "loadingcache_stale_hit"
	MetricLoad       = "loadingcache_load"
	MetricLoadError  = "loadingcache_load_error"
	MetricStore      = "loadingcache_store"
	MetricStoreError = "loadingcache_store_error"
	MetricStoreWins  = "loadingcache_store_wins"
	MetricTimeout    = "loadingcache_timeout"
)

// Config is immutable configuration supplied to NewLoadingCache.
type Config[K comparable, V any] struct {
	// Name is added to logs and stats.
	Name string

	// Loader produces and persists values. Required.
	Loader Loader[K, V]

	// RefreshAge is the age after which a cached result is stale: still
	// returned synchronously, but a background refresh is started.
	RefreshAge time.Duration

	// SpoilAge is the age after which a cached result must not be
	// returned; callers block on a fresh Load instead. Must be >=
	// RefreshAge.
	SpoilAge time.Duration

	// Timeout bounds every individual Get call. Zero disables the bound.
	Timeout time.Duration

	// Logger collects contextualized log messages. Defaults to a no-op.
	Logger ctxd.Logger

	// Stats tracks named counters. Defaults to a no-op.
	Stats stats.Tracker

	// ShardedStore selects the hash-sharded entry registry instead of the
	// default xsync-backed one. Both give identical semantics; this is
	// an alternative for callers who want explicit, fixed-width shard
	// contention instead of xsync's internal striping.
	ShardedStore bool
}

func (cfg *Config[K, V]) setDefaults() error {
	if cfg.RefreshAge > cfg.SpoilAge {
		return ErrInvalidConfig
	}

	if cfg.Logger == nil {
		cfg.Logger = ctxd.NoOpLogger{}
	}

	if cfg.Stats == nil {
		cfg.Stats = stats.NoOp{}
	}

	return nil
}
