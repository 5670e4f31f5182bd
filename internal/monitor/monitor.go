// Package monitor polls the system clipboard for changes and feeds
// them into the history.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clipkeep/clipkeep/internal/clipboard"
	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/history"
)

// Monitor watches the clipboard mutation counter at a fixed interval
// and captures new content into the history. Reading the counter is
// cheap, so the poll only touches clipboard content when the counter
// actually moved.
type Monitor struct {
	board clipboard.Backend
	hist  *history.Manager
	log   *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration

	lastCount uint64
}

// New creates a monitor polling at the given interval. A non-positive
// interval falls back to one second.
func New(board clipboard.Backend, hist *history.Manager, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Monitor{
		board:    board,
		hist:     hist,
		log:      slog.With("component", "monitor"),
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
}

// Interval returns the current polling interval.
func (m *Monitor) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// SetInterval changes the polling interval of a running monitor. A
// non-positive interval is ignored.
func (m *Monitor) SetInterval(interval time.Duration) {
	if interval <= 0 {
		m.log.Warn("ignoring non-positive poll interval", "interval", interval)
		return
	}

	m.mu.Lock()
	m.interval = interval
	m.mu.Unlock()

	// Newest value wins if the loop has not picked up an earlier one.
	select {
	case <-m.reset:
	default:
	}
	m.reset <- interval
}

// Run polls until ctx is cancelled. The counter value at start is the
// baseline, so content already on the clipboard is not captured.
// Ticks never overlap: a poll that runs long simply delays the next
// one.
func (m *Monitor) Run(ctx context.Context) {
	m.lastCount = m.board.ChangeCount()
	m.log.Info("watching clipboard", "interval", m.Interval())

	ticker := time.NewTicker(m.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("stopped watching clipboard")
			return
		case interval := <-m.reset:
			ticker.Reset(interval)
			m.log.Info("poll interval changed", "interval", interval)
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll runs one comparison of the mutation counter and captures the
// clipboard content when it moved.
func (m *Monitor) poll() {
	count := m.board.ChangeCount()
	if count == m.lastCount {
		return
	}
	m.lastCount = count

	// A change caused by Restore is consumed here, whatever content
	// the clipboard holds by now.
	if m.hist.ConsumeSelfWrite() {
		m.log.Debug("skipping change written by restore", "count", count)
		return
	}

	// Text wins over image when the clipboard offers both.
	if text := m.board.ReadText(); text != "" {
		if payload, ok := domain.NewText(text); ok {
			m.hist.Capture(payload)
		}
		return
	}
	if data := m.board.ReadImage(); len(data) > 0 {
		if payload, ok := domain.NewImage(data); ok {
			m.hist.Capture(payload)
		}
		return
	}

	m.log.Debug("clipboard changed but holds no text or image", "count", count)
}
