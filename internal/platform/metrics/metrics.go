package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks payroll engine activity with lock-free counters.
type Collector struct {
	runsTotal           uint64
	runsWithErrors      uint64
	itemsTotal          uint64
	employeeErrorsTotal uint64
	totalDurationMs     uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) RecordRun(items, employeeErrors int, duration time.Duration) {
	atomic.AddUint64(&c.runsTotal, 1)
	if employeeErrors > 0 {
		atomic.AddUint64(&c.runsWithErrors, 1)
	}
	atomic.AddUint64(&c.itemsTotal, uint64(items))
	atomic.AddUint64(&c.employeeErrorsTotal, uint64(employeeErrors))
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	runs := atomic.LoadUint64(&c.runsTotal)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if runs > 0 {
		avg = float64(totalMs) / float64(runs)
	}
	return map[string]any{
		"runsTotal":           runs,
		"runsWithErrors":      atomic.LoadUint64(&c.runsWithErrors),
		"itemsTotal":          atomic.LoadUint64(&c.itemsTotal),
		"employeeErrorsTotal": atomic.LoadUint64(&c.employeeErrorsTotal),
		"avgRunDurationMs":    avg,
	}
}
