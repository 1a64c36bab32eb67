// Package memstore is a demonstration loadingcache.Loader backed by
// github.com/patrickmn/go-cache, standing in for a slow remote source. It
// lives outside the core package: the loader is an external collaborator,
// never something the cache itself depends on.
package memstore

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mbrt/loadingcache"
)

// Loader loads values from (and stores them to) an in-process
// patrickmn/go-cache instance, simulating Latency on every call to make
// coalescing and staleness observable without a real network hop.
type Loader struct {
	store   *gocache.Cache
	latency time.Duration
}

// New creates a Loader whose backing store entries expire after ttl
// (gocache.NoExpiration disables expiry) and whose Load/Store calls sleep
// for latency before returning, to emulate a slow upstream.
func New(ttl, latency time.Duration) *Loader {
	return &Loader{
		store:   gocache.New(ttl, ttl/2),
		latency: latency,
	}
}

// Load implements loadingcache.Loader. A miss returns an error rather
// than a zero value, since a missing backing-store entry is exactly the
// condition under which the cache should keep treating the key as Empty.
func (l *Loader) Load(ctx context.Context, key string) (loadingcache.Result[string], error) {
	if err := l.sleep(ctx); err != nil {
		return loadingcache.Result[string]{}, err
	}

	v, ok := l.store.Get(key)
	if !ok {
		return loadingcache.Result[string]{}, fmt.Errorf("memstore: no value for key %q", key)
	}

	return loadingcache.Result[string]{Timestamp: time.Now(), Value: v.(string)}, nil
}

// Store implements loadingcache.Loader.
func (l *Loader) Store(ctx context.Context, key, value string) (loadingcache.Result[string], error) {
	if err := l.sleep(ctx); err != nil {
		return loadingcache.Result[string]{}, err
	}

	l.store.SetDefault(key, value)

	return loadingcache.Result[string]{Timestamp: time.Now(), Value: value}, nil
}

func (l *Loader) sleep(ctx context.Context) error {
	if l.latency <= 0 {
		return nil
	}

	select {
	case <-time.After(l.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
