package analyzer

import (
	"context"
	"time"

	"github.com/eoinhurrell/mindmeld/internal/cache"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

// Cached memoizes analyses by content hash
type Cached struct {
	inner   ContentAnalyzer
	cache   *cache.Cache[model.ContentAnalysis]
	metrics *observe.Metrics
}

// NewCached wraps inner with an LRU cache. metrics may be nil.
func NewCached(inner ContentAnalyzer, config cache.Config[model.ContentAnalysis], metrics *observe.Metrics) *Cached {
	if inner == nil {
		inner = NewAnalyzer()
	}
	return &Cached{
		inner:   inner,
		cache:   cache.New(config),
		metrics: metrics,
	}
}

// Analyze returns the cached analysis of text, computing it on a miss.
// The returned value never shares slices with the cache.
func (c *Cached) Analyze(text string) model.ContentAnalysis {
	a, hit, _ := c.cache.GetOrSet(cache.ContentKey(text), func() (model.ContentAnalysis, error) {
		return Clone(c.inner.Analyze(text)), nil
	})
	if c.metrics != nil {
		if hit {
			c.metrics.CacheHits.Inc()
		} else {
			c.metrics.Analyses.Inc()
		}
	}
	return Clone(a)
}

// Stats returns the cache statistics
func (c *Cached) Stats() cache.Stats {
	return c.cache.Stats()
}

// Invalidate drops the cached analysis of text
func (c *Cached) Invalidate(text string) {
	c.cache.Delete(cache.ContentKey(text))
}

// StartCleanup expires stale analyses every interval until ctx is done
func (c *Cached) StartCleanup(ctx context.Context, interval time.Duration) {
	c.cache.StartCleanupTimer(ctx, interval)
}
