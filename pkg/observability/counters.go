package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters is a lock-free hook implementation that tallies events. It
// implements [PipelineHooks], [CacheHooks] and [ServerHooks].
type Counters struct {
	Renders      atomic.Int64
	RenderErrors atomic.Int64
	CacheHits    atomic.Int64
	CacheMisses  atomic.Int64
	CacheErrors  atomic.Int64
	Requests     atomic.Int64
	ServerErrors atomic.Int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Renders      int64 `json:"renders"`
	RenderErrors int64 `json:"render_errors"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CacheErrors  int64 `json:"cache_errors"`
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

// Snapshot reads every counter.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Renders:      c.Renders.Load(),
		RenderErrors: c.RenderErrors.Load(),
		CacheHits:    c.CacheHits.Load(),
		CacheMisses:  c.CacheMisses.Load(),
		CacheErrors:  c.CacheErrors.Load(),
		Requests:     c.Requests.Load(),
		ServerErrors: c.ServerErrors.Load(),
	}
}

func (c *Counters) OnRenderStart(context.Context, string, []string) {}

func (c *Counters) OnStageComplete(context.Context, string, string, time.Duration, error) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ string, _ []string, _ time.Duration, err error) {
	c.Renders.Add(1)
	if err != nil {
		c.RenderErrors.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.CacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.CacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}
func (c *Counters) OnCacheError(context.Context, string, error) {
	c.CacheErrors.Add(1)
}

func (c *Counters) OnRequest(context.Context, string, string) { c.Requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.ServerErrors.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ ServerHooks   = (*Counters)(nil)
)
