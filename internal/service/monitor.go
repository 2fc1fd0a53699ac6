package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/svdgoor/Tools/internal/metrics"
)

// DefaultMonitorInterval is the progress sampling cadence.
const DefaultMonitorInterval = time.Second

// Sample is one progress observation.
type Sample struct {
	Total     int
	Processed int
	Percent   float64
	Elapsed   time.Duration
	ETA       time.Duration
	Done      bool
}

// Estimate computes percent complete and a linear ETA. An empty batch is
// 100% complete.
func Estimate(total, processed int, elapsed time.Duration) Sample {
	s := Sample{Total: total, Processed: processed, Elapsed: elapsed, Percent: 100}
	if total > 0 {
		s.Percent = float64(processed) * 100 / float64(total)
	}
	if s.Percent > 0 {
		s.ETA = time.Duration(float64(elapsed) / s.Percent * (100 - s.Percent))
	}
	return s
}

// Monitor periodically samples batch progress and logs it.
type Monitor struct {
	progress *metrics.Progress
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	observer func(Sample)
	stopped  chan struct{}
}

// NewMonitor creates a monitor for progress. A non-positive interval uses
// DefaultMonitorInterval.
func NewMonitor(progress *metrics.Progress, logger *slog.Logger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &Monitor{
		progress: progress,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stopped:  make(chan struct{}),
	}
}

// OnSample registers fn to receive every sample, including the final one.
// fn runs on the monitor goroutine. Must be called before Start.
func (m *Monitor) OnSample(fn func(Sample)) {
	m.observer = fn
}

// Start launches the sampling loop. The progress total must already be
// frozen; Start panics otherwise.
func (m *Monitor) Start() {
	if !m.progress.Started() {
		panic("service: monitor started before progress total was fixed")
	}
	go m.run()
}

// Wait blocks until the monitor has observed completion and exited.
func (m *Monitor) Wait() {
	<-m.stopped
}

func (m *Monitor) run() {
	defer close(m.stopped)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.progress.Done():
			m.report(true)
			return
		case <-ticker.C:
			s := m.Sample()
			if s.Processed == s.Total {
				// Done is closed too; completion is reported there.
				continue
			}
			m.emit(s)
		}
	}
}

// Sample takes a progress observation now.
func (m *Monitor) Sample() Sample {
	snap := m.progress.Snapshot()
	return Estimate(snap.Total, snap.Processed, m.now().Sub(snap.StartedAt))
}

func (m *Monitor) report(done bool) {
	s := m.Sample()
	s.Done = done
	m.emit(s)
}

func (m *Monitor) emit(s Sample) {
	level := slog.LevelInfo
	if s.Done {
		level = slog.LevelDebug
	}
	m.logger.Log(context.Background(), level, "conversion progress",
		"percent", fmt.Sprintf("%.2f%%", s.Percent),
		"processed", s.Processed,
		"total", s.Total,
		"elapsed", s.Elapsed.Round(10*time.Millisecond),
		"eta", s.ETA.Round(10*time.Millisecond),
	)

	if m.observer != nil {
		m.observer(s)
	}
}
