package loadingcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// InvalidatorTarget names a single cache's InvalidateAll for registration
// with an Invalidator. LoadingCache.InvalidatorTarget builds one from a
// running cache's own Config.Name.
type InvalidatorTarget struct {
	Name       string
	Invalidate func()
}

// Invalidator batches InvalidateAll calls across multiple named
// LoadingCache instances behind one flood-protected trigger: a deploy
// hook or admin endpoint can register
// Targets = []InvalidatorTarget{cacheA.InvalidatorTarget(), cacheB.InvalidatorTarget()}
// and call Invalidate once to drop all of them together, with every run
// attributed per target in Logger/Stats.
type Invalidator struct {
	sync.Mutex

	// SkipInterval is the minimal duration between two invalidation
	// runs (flood protection). Defaults to 15s.
	SkipInterval time.Duration

	// Targets contains the caches to invalidate.
	Targets []InvalidatorTarget

	// Logger records each invalidated target. Defaults to a no-op.
	Logger ctxd.Logger

	// Stats counts each invalidated target. Defaults to a no-op.
	Stats stats.Tracker

	lastRun time.Time
}

// Invalidate drops every registered target's cache contents, unless the
// previous run was within SkipInterval.
func (i *Invalidator) Invalidate(ctx context.Context) error {
	if len(i.Targets) == 0 {
		return ErrNothingToInvalidate
	}

	i.Lock()
	defer i.Unlock()

	skip := i.SkipInterval
	if skip == 0 {
		skip = 15 * time.Second
	}

	if time.Since(i.lastRun) < skip {
		return fmt.Errorf("%w at %s, %s did not pass",
			ErrAlreadyInvalidated, i.lastRun.String(), skip.String())
	}

	i.lastRun = time.Now()

	for _, t := range i.Targets {
		t.Invalidate()
		i.logger().Debug(ctx, "invalidated cache target", "target", t.Name)
		i.stats().Add(ctx, "loadingcache_invalidator_run", 1, "target", t.Name)
	}

	return nil
}

func (i *Invalidator) logger() ctxd.Logger {
	if i.Logger == nil {
		return ctxd.NoOpLogger{}
	}

	return i.Logger
}

func (i *Invalidator) stats() stats.Tracker {
	if i.Stats == nil {
		return stats.NoOp{}
	}

	return i.Stats
}
