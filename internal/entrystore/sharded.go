package entrystore

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// shardCount is a fixed power-of-two bucket count, so the shard index can
// be taken directly off the hash without a division.
const shardCount = 64

type shardedBucket struct {
	sync.RWMutex
	data map[string]interface{}
}

// Sharded is a hash-sharded registry: each key is routed to one of shardCount
// RWMutex-guarded buckets by its xxhash. It trades the single striped lock
// of Map for coarser, explicit shards — useful when callers want
// predictable per-shard contention instead of xsync's internal striping,
// or when benchmarking against it.
type Sharded struct {
	buckets [shardCount]shardedBucket
}

// NewSharded creates an empty Sharded store.
func NewSharded() *Sharded {
	s := &Sharded{}
	for i := range s.buckets {
		s.buckets[i].data = make(map[string]interface{})
	}

	return s
}

func (s *Sharded) bucket(key string) *shardedBucket {
	return &s.buckets[xxhash.Sum64String(key)%shardCount]
}

// GetOrCreate returns the existing value for key, or stores and returns the
// value produced by create if none exists yet.
func (s *Sharded) GetOrCreate(key string, create func() interface{}) interface{} {
	b := s.bucket(key)

	b.RLock()
	v, ok := b.data[key]
	b.RUnlock()

	if ok {
		return v
	}

	b.Lock()
	defer b.Unlock()

	if v, ok := b.data[key]; ok {
		return v
	}

	v = create()
	b.data[key] = v

	return v
}

// Range calls f for every key across all shards. Range stops early if f
// returns false.
func (s *Sharded) Range(f func(key string, value interface{}) bool) {
	for i := range s.buckets {
		b := &s.buckets[i]

		b.RLock()
		snapshot := make(map[string]interface{}, len(b.data))
		for k, v := range b.data {
			snapshot[k] = v
		}
		b.RUnlock()

		for k, v := range snapshot {
			if !f(k, v) {
				return
			}
		}
	}
}

// Len returns the number of keys currently stored.
func (s *Sharded) Len() int {
	n := 0

	for i := range s.buckets {
		b := &s.buckets[i]
		b.RLock()
		n += len(b.data)
		b.RUnlock()
	}

	return n
}
