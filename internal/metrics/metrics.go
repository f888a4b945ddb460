// Package metrics records per-tool execution outcomes and latency and
// answers aggregate queries. All state is in-memory with process
// lifetime; a restart starts every counter from zero.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OpStats is the rollup for one tool name. Times are seconds; the
// error rate is a percentage. A tool that was never recorded reports
// all zeros.
type OpStats struct {
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	ErrorRate    float64 `json:"error_rate"`
	AvgTime      float64 `json:"avg_time"`
	MinTime      float64 `json:"min_time"`
	MaxTime      float64 `json:"max_time"`
}

// Summary aggregates across every recorded tool.
type Summary struct {
	TotalRequests int64              `json:"total_requests"`
	TotalErrors   int64              `json:"total_errors"`
	ErrorRate     float64            `json:"error_rate"`
	Tools         map[string]OpStats `json:"tools"`
}

type record struct {
	requests int64
	errors   int64
	total    time.Duration
	min      time.Duration
	max      time.Duration
}

// Collector accumulates per-tool metrics. Construct with NewCollector.
type Collector struct {
	mu  sync.Mutex
	ops map[string]*record
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{ops: make(map[string]*record)}
}

// Record adds one execution of the named tool. Callers are expected to
// invoke it exactly once per call, in a defer, so failures and panics
// recovered upstream are still counted.
func (c *Collector) Record(tool string, d time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.ops[tool]
	if !ok {
		r = &record{min: d, max: d}
		c.ops[tool] = r
	} else {
		if d < r.min {
			r.min = d
		}
		if d > r.max {
			r.max = d
		}
	}
	r.requests++
	r.total += d
	if !success {
		r.errors++
	}
}

// Stats returns the rollup for one tool. Unknown names yield a zero
// OpStats, never an error.
func (c *Collector) Stats(tool string) OpStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked(tool)
}

func (c *Collector) statsLocked(tool string) OpStats {
	r, ok := c.ops[tool]
	if !ok || r.requests == 0 {
		return OpStats{}
	}

	avg := r.total.Seconds() / float64(r.requests)
	return OpStats{
		RequestCount: r.requests,
		ErrorCount:   r.errors,
		ErrorRate:    round2(float64(r.errors) / float64(r.requests) * 100),
		AvgTime:      round3(avg),
		MinTime:      round3(r.min.Seconds()),
		MaxTime:      round3(r.max.Seconds()),
	}
}

// All returns a rollup for every tool ever recorded.
func (c *Collector) All() map[string]OpStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]OpStats, len(c.ops))
	for tool := range c.ops {
		out[tool] = c.statsLocked(tool)
	}
	return out
}

// ServerStats sums all tools into an overall summary.
func (c *Collector) ServerStats() Summary {
	all := c.All()

	var requests, errs int64
	for _, s := range all {
		requests += s.RequestCount
		errs += s.ErrorCount
	}

	var rate float64
	if requests > 0 {
		rate = round2(float64(errs) / float64(requests) * 100)
	}
	return Summary{
		TotalRequests: requests,
		TotalErrors:   errs,
		ErrorRate:     rate,
		Tools:         all,
	}
}

// Reset clears every counter. Readers either see the old map or an
// empty one, never a partially cleared state.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.ops = make(map[string]*record)
	c.mu.Unlock()
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
