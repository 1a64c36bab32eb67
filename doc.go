// Package loadingcache provides an asynchronous, concurrency-safe key-value
// cache whose values are produced on demand by a caller-supplied Loader.
//
// Features:
//
//  - At most one in-flight Load per key, regardless of concurrent callers.
//  - Fresh/stale/spoiled age buckets: stale values are served immediately
//    while a refresh happens in the background; spoiled values are never
//    served.
//  - Explicit Set races against a concurrent Load for the same key and
//    always wins, so the newer authoritative value is what callers see.
//  - Per-call timeout that fails only the waiting caller, never the
//    underlying Load.
//  - Optional logging and stats hooks, both no-op by default.
package loadingcache
