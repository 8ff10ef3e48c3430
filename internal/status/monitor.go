package status

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Monitor drives the aggregator on a fixed interval. It is the stand-in
// for the host scheduler: one tick, one fetch cycle.
type Monitor struct {
	agg      *Aggregator
	logger   *logrus.Logger
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}

	topNMu sync.RWMutex
	topN   int
}

func NewMonitor(agg *Aggregator, interval time.Duration, topN int, logger *logrus.Logger) *Monitor {
	return &Monitor{
		agg:      agg,
		logger:   logger,
		interval: interval,
		topN:     topN,
	}
}

// TopN returns the current top-N setting for the traffic metric.
func (m *Monitor) TopN() int {
	m.topNMu.RLock()
	defer m.topNMu.RUnlock()
	return m.topN
}

// SetTopN changes the top-N setting and re-notifies consumers immediately
// so derived values follow without waiting for the next poll.
func (m *Monitor) SetTopN(n int) {
	if n <= 0 {
		return
	}
	m.topNMu.Lock()
	m.topN = n
	m.topNMu.Unlock()

	m.agg.dispatcher.Send(m.agg.address)
}

// Start begins polling. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return
	}
	m.isRunning = true
	m.stop = make(chan struct{})
	stop := m.stop
	m.mu.Unlock()

	m.logger.Infof("Starting status monitoring for %s (interval %s)", m.agg.address, m.interval)

	go m.loop(stop)
}

// Stop halts polling. A cycle already in flight finishes on its own.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		close(m.stop)
		m.isRunning = false
		m.logger.Infof("Stopping status monitoring for %s", m.agg.address)
	}
}

func (m *Monitor) loop(stop chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Initial cycle so consumers have data right away.
	m.runOnce()

	for {
		select {
		case <-ticker.C:
			m.runOnce()
		case <-stop:
			return
		}
	}
}

func (m *Monitor) runOnce() {
	// Cycle outcome is already recorded in the slot; the error return is
	// only relevant to callers invoking RunCycle directly.
	_ = m.agg.RunCycle(context.Background())
}
