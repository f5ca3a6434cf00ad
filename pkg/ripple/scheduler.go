package ripple

import (
	"log/slog"
	"sync"
	"time"

	"github.com/thomsbg/ripple/pkg/metrics"
)

// Scheduler coalesces DOM writes. Each write is keyed by a binding-site ID;
// enqueueing the same site again before a flush replaces the earlier closure,
// so one flush applies at most one write per site, in first-enqueue order.
//
// Flushing is host-driven, the way an embedding runtime drains pending work
// after each event turn: call Flush after applying a batch of model updates.
// Hosts without an event loop can run StartFrames for a frame-interval
// flush loop instead.
type Scheduler struct {
	mu      sync.Mutex
	flushMu sync.Mutex
	order   []uint64
	entries map[uint64]*writeEntry

	frameStop chan struct{}

	logger    *slog.Logger
	collector *metrics.Collector
}

// writeEntry is one pending write for a binding site.
type writeEntry struct {
	owner uint64 // ID of the view that owns the binding site
	apply func()
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the logger used to report isolated write failures.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithSchedulerMetrics attaches a metrics collector.
func WithSchedulerMetrics(c *metrics.Collector) SchedulerOption {
	return func(s *Scheduler) {
		s.collector = c
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		entries: make(map[uint64]*writeEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "scheduler")
	}
	return s
}

// Enqueue queues apply for the given binding site. If the site already has
// a pending write, the closure is replaced and the site keeps its original
// position in the flush order.
func (s *Scheduler) Enqueue(site, owner uint64, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[site]; ok {
		e.apply = apply
		s.collector.WriteCoalesced()
		return
	}
	s.entries[site] = &writeEntry{owner: owner, apply: apply}
	s.order = append(s.order, site)
}

// Pending returns the number of binding sites with a queued write.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cancel drops all pending writes owned by the given view.
func (s *Scheduler) Cancel(owner uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	remaining := s.order[:0]
	for _, site := range s.order {
		if e := s.entries[site]; e != nil && e.owner == owner {
			delete(s.entries, site)
			dropped++
			continue
		}
		remaining = append(remaining, site)
	}
	s.order = remaining
	s.collector.WriteCancelled(dropped)
}

// Flush applies every pending write in first-enqueue order and returns the
// number of writes applied. A panicking write is isolated: it is logged,
// counted, and the remaining sites still run.
//
// Flush may be called concurrently: a frame loop and a host-driven flush
// both mutate the same node tree, so the whole apply phase is serialized,
// not just the queue swap.
func (s *Scheduler) Flush() int {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	order := s.order
	entries := s.entries
	s.order = nil
	s.entries = make(map[uint64]*writeEntry)
	s.mu.Unlock()

	if len(order) == 0 {
		return 0
	}

	start := time.Now()
	applied := 0
	for _, site := range order {
		e := entries[site]
		if e == nil {
			continue
		}
		s.applyOne(site, e)
		applied++
	}
	s.collector.FlushCycle(time.Since(start).Seconds())
	return applied
}

// applyOne runs a single write with panic isolation.
func (s *Scheduler) applyOne(site uint64, e *writeEntry) {
	defer func() {
		if r := recover(); r != nil {
			s.collector.WriteFailed()
			s.logger.Error("write panicked during flush",
				"site", site,
				"view", e.owner,
				"panic", r)
		}
	}()
	e.apply()
	s.collector.WriteApplied()
}

// StartFrames begins a background flush loop with the given interval,
// an animation-frame equivalent for hosts without their own event loop.
// A zero or negative interval defaults to roughly 60 frames per second.
func (s *Scheduler) StartFrames(interval time.Duration) {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	s.mu.Lock()
	if s.frameStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.frameStop = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Flush()
			case <-stop:
				return
			}
		}
	}()
}

// StopFrames stops the background flush loop. Pending writes stay queued.
func (s *Scheduler) StopFrames() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frameStop != nil {
		close(s.frameStop)
		s.frameStop = nil
	}
}
