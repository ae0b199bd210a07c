package pipeline

import (
	"fmt"
	"time"

	"github.com/quantarax/snapshot/internal/observability"
	"github.com/quantarax/snapshot/internal/snapshot"
)

// Monitor periodically logs a snapshot's progress, the same ticker-driven
// background loop the pre-existing worker used to drain a retry queue.
type Monitor struct {
	snap     *snapshot.SnapshotBuilder
	logger   *observability.Logger
	interval time.Duration
	stop     chan struct{}
}

// NewMonitor creates a progress monitor for snap, reporting every interval.
func NewMonitor(snap *snapshot.SnapshotBuilder, logger *observability.Logger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Monitor{snap: snap, logger: logger, interval: interval, stop: make(chan struct{})}
}

// Start begins the periodic progress loop in its own goroutine.
func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.report()
			}
		}
	}()
}

// Stop ends the progress loop.
func (m *Monitor) Stop() { close(m.stop) }

func (m *Monitor) report() {
	paths := m.snap.Paths()
	complete := 0
	for _, p := range paths {
		if p.Complete() {
			complete++
		}
	}
	m.logger.Info(fmt.Sprintf("%s, %d/%d paths complete", m.snap.String(), complete, len(paths)))
}
