package loadingcache

import (
	"context"
	"time"
)

// Result is a value produced by a Loader, tagged with the time the
// producer considered it authoritative.
//
// Age of a Result is always computed as time.Since(Result.Timestamp).
type Result[V any] struct {
	Timestamp time.Time
	Value     V
}

// Loader is the cache's sole outbound collaborator. It is pure from the
// cache's point of view: the cache never inspects or retries on its own,
// it only broadcasts whatever Load/Store returns.
type Loader[K comparable, V any] interface {
	// Load produces a value for key. Called at most once per coalescing
	// window per key: while a Load for a key is in flight, every
	// concurrent Get for that key shares this single call.
	Load(ctx context.Context, key K) (Result[V], error)

	// Store persists value for key and returns the authoritative
	// Result, normally {Timestamp: time.Now(), Value: value}.
	Store(ctx context.Context, key K, value V) (Result[V], error)
}
