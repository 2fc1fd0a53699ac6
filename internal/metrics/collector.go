// Package metrics provides the shared counters and runtime statistics of a
// conversion batch.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/svdgoor/Tools/internal/models"
)

// OperationMetrics holds aggregated timings for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Op        string
	Count     int64
	Failures  int64
	TotalTime time.Duration
	AvgTime   time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// Operation names for the collector.
const (
	OpOpen    = "open"
	OpConvert = "convert"
)

// SaveOp returns the operation name for saving format f.
func SaveOp(f models.Format) string {
	return "save:" + f.Suffix()
}

// Collector aggregates codec call timings.
// All methods are thread-safe.
type Collector struct {
	mu  sync.RWMutex
	ops map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		ops: make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records one call of op that took duration. Failed calls are
// counted separately but still contribute their timing.
func (c *Collector) RecordTiming(op string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Time runs fn and records its duration under op.
func (c *Collector) Time(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.RecordTiming(op, time.Since(start), err != nil)
	return err
}

// Snapshot returns a point-in-time snapshot of all operations, sorted by name.
func (c *Collector) Snapshot() []OperationSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snaps := make([]OperationSnapshot, 0, len(c.ops))
	for op, m := range c.ops {
		if m.Count == 0 {
			continue
		}
		snaps = append(snaps, OperationSnapshot{
			Op:        op,
			Count:     m.Count,
			Failures:  m.Failures,
			TotalTime: m.TotalTime,
			AvgTime:   m.TotalTime / time.Duration(m.Count),
			MinTime:   m.MinTime,
			MaxTime:   m.MaxTime,
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Op < snaps[j].Op })
	return snaps
}
