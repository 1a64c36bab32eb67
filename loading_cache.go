package loadingcache

import (
	"context"
	"fmt"
	"time"

	"github.com/mbrt/loadingcache/internal/entrystore"
)

// store is the concurrent key registry backing LoadingCache, satisfied by
// both entrystore.Map (default) and entrystore.Sharded.
type store interface {
	GetOrCreate(key string, create func() interface{}) interface{}
	Range(func(key string, value interface{}) bool)
	Len() int
}

// LoadingCache is the per-key coordination engine: it routes Get/Set to
// the entry for a key, enforces freshness and timeout policy, and
// guarantees at most one concurrent Load per key.
//
// A LoadingCache must be created with NewLoadingCache. The zero value is
// not usable.
type LoadingCache[K comparable, V any] struct {
	cfg     Config[K, V]
	entries store
}

// NewLoadingCache creates a LoadingCache from cfg. It returns
// ErrInvalidConfig if cfg.RefreshAge exceeds cfg.SpoilAge.
func NewLoadingCache[K comparable, V any](cfg Config[K, V]) (*LoadingCache[K, V], error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	c := &LoadingCache[K, V]{cfg: cfg}
	if cfg.ShardedStore {
		c.entries = entrystore.NewSharded()
	} else {
		c.entries = entrystore.New()
	}

	return c, nil
}

func keyString[K comparable](key K) string {
	if s, ok := any(key).(string); ok {
		return s
	}

	return fmt.Sprint(key)
}

func (c *LoadingCache[K, V]) entryFor(key K) *entry[V] {
	v := c.entries.GetOrCreate(keyString(key), func() interface{} {
		return &entry[V]{}
	})

	return v.(*entry[V])
}

// Get returns the value for key. Fresh and Stale/Refreshing results are
// returned immediately (Stale additionally kicks off a background
// refresh); Empty and Spoiled results trigger a Load and block until it
// (or a racing Set) settles, or until Config.Timeout elapses.
func (c *LoadingCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	e := c.entryFor(key)

	e.mu.Lock()

	snap := e.snapshotLocked()
	if snap.hasValue && snap.age <= c.cfg.SpoilAge {
		fresh := snap.age <= c.cfg.RefreshAge
		if !fresh && !snap.loadInFlight && !snap.storeInFlight {
			c.startLoad(e, key, true)
		}

		e.mu.Unlock()

		metric := MetricStaleHit
		if fresh {
			metric = MetricHit
		}

		c.cfg.Stats.Add(ctx, metric, 1, "name", c.cfg.Name)

		return snap.value, nil
	}

	if snap.loadInFlight || snap.storeInFlight {
		c.cfg.Logger.Debug(ctx, "coalescing onto in-flight load or store",
			"name", c.cfg.Name, "key", key)
	} else {
		c.startLoad(e, key, false)
	}

	w := e.attach()
	e.mu.Unlock()

	return c.await(ctx, key, w)
}

// Set stores value for key via Config.Loader.Store and returns the
// authoritative Result's value. If a Load for the same key is in flight,
// the store's outcome supersedes it for every waiter currently attached
// (see entry.settle). Store runs with the caller's cancellation and
// deadline stripped, so a canceled Set still persists and still settles
// any waiter coalesced onto it.
func (c *LoadingCache[K, V]) Set(ctx context.Context, key K, value V) (V, error) {
	e := c.entryFor(key)

	e.mu.Lock()
	e.openWindow()
	e.storeInFlight = true
	e.mu.Unlock()

	res, err := c.cfg.Loader.Store(context.WithoutCancel(ctx), key, value)

	switch {
	case err != nil:
		c.cfg.Logger.Warn(ctx, "failed to store cache value",
			"error", err, "name", c.cfg.Name, "key", key)
		c.cfg.Stats.Add(ctx, MetricStoreError, 1, "name", c.cfg.Name)
	case res.Timestamp.IsZero():
		c.cfg.Logger.Error(ctx, "loader.Store returned a result with no timestamp",
			"name", c.cfg.Name, "key", key)
	default:
		c.cfg.Stats.Add(ctx, MetricStore, 1, "name", c.cfg.Name)
	}

	if e.settle(true, res, err) {
		c.cfg.Stats.Add(ctx, MetricStoreWins, 1, "name", c.cfg.Name)
	}

	if err != nil {
		var zero V
		return zero, err
	}

	return res.Value, nil
}

// Peek returns the currently installed result without triggering a Load,
// and reports whether one was present and not yet spoiled.
func (c *LoadingCache[K, V]) Peek(key K) (V, bool) {
	e := c.entryFor(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil || time.Since(e.result.Timestamp) > c.cfg.SpoilAge {
		var zero V
		return zero, false
	}

	return e.result.Value, true
}

// Invalidate drops the installed result for key, so the next Get treats
// it as Empty. It does not cancel or wait for an in-flight Load or Store.
func (c *LoadingCache[K, V]) Invalidate(key K) {
	e := c.entryFor(key)
	e.invalidate()
}

// InvalidateAll drops the installed result for every known key.
func (c *LoadingCache[K, V]) InvalidateAll() {
	c.entries.Range(func(_ string, v interface{}) bool {
		v.(*entry[V]).invalidate()
		return true
	})
}

// InvalidatorTarget describes this cache, named after Config.Name, for
// registration with an Invalidator.
func (c *LoadingCache[K, V]) InvalidatorTarget() InvalidatorTarget {
	return InvalidatorTarget{Name: c.cfg.Name, Invalidate: c.InvalidateAll}
}

// Len returns the number of keys the cache currently holds an entry for,
// including keys whose entry is Empty because its result was invalidated.
func (c *LoadingCache[K, V]) Len() int {
	return c.entries.Len()
}

// startLoad begins a Load for key and arranges for its outcome to settle
// e. background indicates a stale refresh, whose failure is logged rather
// than left silent since no waiter is attached to observe it. Must be
// called with e.mu held; it does not release it.
func (c *LoadingCache[K, V]) startLoad(e *entry[V], key K, background bool) {
	e.openWindow()
	e.loadInFlight = true

	ctx := context.Background()

	go func() {
		res, err := c.cfg.Loader.Load(ctx, key)

		switch {
		case err != nil:
			c.cfg.Stats.Add(ctx, MetricLoadError, 1, "name", c.cfg.Name)

			if background {
				c.cfg.Logger.Warn(ctx, "failed to refresh stale cache value",
					"error", err, "name", c.cfg.Name, "key", key)
			}
		case res.Timestamp.IsZero():
			c.cfg.Logger.Error(ctx, "loader.Load returned a result with no timestamp",
				"name", c.cfg.Name, "key", key)
		default:
			c.cfg.Stats.Add(ctx, MetricLoad, 1, "name", c.cfg.Name)
		}

		e.settle(false, res, err)
	}()
}

// await blocks until w delivers an outcome or ctx/Config.Timeout expires,
// whichever comes first. A timeout settles only this call: the Load or
// Store backing w keeps running for every other waiter.
func (c *LoadingCache[K, V]) await(ctx context.Context, key K, w chan outcome[V]) (V, error) {
	var timer *time.Timer

	var timeoutCh <-chan time.Time

	if c.cfg.Timeout > 0 {
		timer = time.NewTimer(c.cfg.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case o := <-w:
		var zero V
		if o.err != nil {
			return zero, o.err
		}

		return o.value, nil
	case <-timeoutCh:
		c.cfg.Stats.Add(ctx, MetricTimeout, 1, "name", c.cfg.Name)

		var zero V

		return zero, &TimeoutError{Key: key, Waited: c.cfg.Timeout}
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
