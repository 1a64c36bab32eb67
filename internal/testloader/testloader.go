// Package testloader provides a scripted loadingcache.Loader double used
// to pin down coalescing, staleness, timeout and store-wins scenarios:
// fixed LoadTime/StoreTime delays, an optional scripted failure, and an
// invocation counter callers assert against.
package testloader

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mbrt/loadingcache"
)

// Loader is a configurable loadingcache.Loader[string, string] double.
type Loader struct {
	// LoadTime is how long Load sleeps before returning.
	LoadTime time.Duration

	// StoreTime is how long Store sleeps before returning.
	StoreTime time.Duration

	// LoadErr, if non-nil, is returned by every Load call instead of a
	// value.
	LoadErr error

	// ValuePrefix is prepended to the key to build the loaded value,
	// letting tests assert on which generation of value they received.
	ValuePrefix string

	loadCount  int64
	storeCount int64

	mu      sync.Mutex
	history []string
}

// Load implements loadingcache.Loader: sleep LoadTime, then return either
// LoadErr or ValuePrefix+key.
func (l *Loader) Load(ctx context.Context, key string) (loadingcache.Result[string], error) {
	atomic.AddInt64(&l.loadCount, 1)
	l.record("load:" + key)

	if l.LoadTime > 0 {
		select {
		case <-time.After(l.LoadTime):
		case <-ctx.Done():
			return loadingcache.Result[string]{}, ctx.Err()
		}
	}

	if l.LoadErr != nil {
		return loadingcache.Result[string]{}, l.LoadErr
	}

	return loadingcache.Result[string]{Timestamp: time.Now(), Value: l.ValuePrefix + key}, nil
}

// Store implements loadingcache.Loader: sleep StoreTime, then return
// {time.Now(), value}.
func (l *Loader) Store(ctx context.Context, key, value string) (loadingcache.Result[string], error) {
	atomic.AddInt64(&l.storeCount, 1)
	l.record("store:" + key)

	if l.StoreTime > 0 {
		select {
		case <-time.After(l.StoreTime):
		case <-ctx.Done():
			return loadingcache.Result[string]{}, ctx.Err()
		}
	}

	return loadingcache.Result[string]{Timestamp: time.Now(), Value: value}, nil
}

// LoadCount returns the number of Load calls observed so far.
func (l *Loader) LoadCount() int64 {
	return atomic.LoadInt64(&l.loadCount)
}

// StoreCount returns the number of Store calls observed so far.
func (l *Loader) StoreCount() int64 {
	return atomic.LoadInt64(&l.storeCount)
}

func (l *Loader) record(event string) {
	l.mu.Lock()
	l.history = append(l.history, event)
	l.mu.Unlock()
}

// History returns every Load/Store invocation observed, in call order.
func (l *Loader) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := make([]string, len(l.history))
	copy(h, l.history)

	return h
}
