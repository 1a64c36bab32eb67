// Package entrystore holds the concurrent key registry LoadingCache uses to
// look up or create the per-key state container without a single global
// lock serializing unrelated keys.
package entrystore

import "github.com/puzpuzpuz/xsync"

// Map is a concurrent string-keyed registry backed by
// github.com/puzpuzpuz/xsync, a striped-lock map tuned for read-heavy
// lookup-or-create traffic. This is the default registry implementation.
type Map struct {
	m *xsync.Map
}

// New creates an empty Map.
func New() *Map {
	return &Map{m: xsync.NewMap()}
}

// GetOrCreate returns the existing value for key, or stores and returns the
// value produced by create if none exists yet. create may run even when
// the key already exists under contention; only one of the racing results
// is kept, so create must be cheap and side-effect free.
func (s *Map) GetOrCreate(key string, create func() interface{}) interface{} {
	if v, ok := s.m.Load(key); ok {
		return v
	}

	v := create()

	actual, loaded := s.m.LoadOrStore(key, v)
	if loaded {
		return actual
	}

	return v
}

// Range calls f for every key in the map. Range stops early if f returns
// false.
func (s *Map) Range(f func(key string, value interface{}) bool) {
	s.m.Range(f)
}

// Len returns the number of keys currently stored.
func (s *Map) Len() int {
	n := 0
	s.m.Range(func(key string, value interface{}) bool {
		n++
		return true
	})

	return n
}
