package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap in-process counters for the /metrics endpoint.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	batchesIngested uint64
	reportsBuilt    uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) BatchIngested() {
	atomic.AddUint64(&c.batchesIngested, 1)
}

func (c *Collector) ReportBuilt() {
	atomic.AddUint64(&c.reportsBuilt, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"batchesIngestedTotal": atomic.LoadUint64(&c.batchesIngested),
		"reportsBuiltTotal":    atomic.LoadUint64(&c.reportsBuilt),
		"avgDurationMs":        avg,
	}
}
