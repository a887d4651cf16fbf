package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/devboard/internal/domain"
	"github.com/pscheid92/devboard/internal/fingerprint"
	"github.com/pscheid92/devboard/internal/metrics"
)

// Broadcaster delivers change notifications to all open streaming clients.
type Broadcaster interface {
	Broadcast(event domain.Event)
}

// Service runs poll cycles and owns the single cache slot.
//
// Cycles may overlap; they are not serialized by a lock, only ordered by the
// sequence guard at the cache-replace step. A cycle's result is applied only
// if its sequence number is greater than the live entry's, so a slow
// scheduled tick can never clobber a faster out-of-band refresh that started
// after it.
type Service struct {
	aggregator *Aggregator
	renderer   domain.Renderer
	hub        Broadcaster
	clock      clockwork.Clock
	interval   time.Duration

	entry     atomic.Pointer[domain.CacheEntry]
	seq       atomic.Uint64
	refreshCh chan struct{}
	fillGroup singleflight.Group
}

func NewService(aggregator *Aggregator, renderer domain.Renderer, hub Broadcaster, clock clockwork.Clock, interval time.Duration) *Service {
	return &Service{
		aggregator: aggregator,
		renderer:   renderer,
		hub:        hub,
		clock:      clock,
		interval:   interval,
		refreshCh:  make(chan struct{}, 1),
	}
}

// Run executes cycles on the poll interval and whenever a refresh was
// requested. It blocks until ctx is cancelled. Failed cycles keep the
// previous entry and wait for the next tick; nothing is retried sooner.
func (s *Service) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		case <-s.refreshCh:
		}

		if _, err := s.RunCycle(ctx); err != nil {
			slog.Warn("Poll cycle failed, keeping previous view", "error", err)
		}
	}
}

// RequestRefresh schedules an out-of-band cycle. Non-blocking; requests
// arriving while one is already pending coalesce into a single cycle.
func (s *Service) RequestRefresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

// HasEntry reports whether a cache entry has ever been produced.
func (s *Service) HasEntry() bool {
	return s.entry.Load() != nil
}

// CurrentEntry returns the live cache entry. On cold start it performs one
// synchronous fill; concurrent cold-start callers collapse into a single
// cycle and share its result or error.
func (s *Service) CurrentEntry(ctx context.Context) (*domain.CacheEntry, error) {
	if e := s.entry.Load(); e != nil {
		return e, nil
	}

	v, err, _ := s.fillGroup.Do("first-fill", func() (any, error) {
		if e := s.entry.Load(); e != nil {
			return e, nil
		}
		return s.RunCycle(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CacheEntry), nil
}

// RunCycle executes one fetch-render-fingerprint-replace-broadcast cycle and
// returns the entry that is live afterwards. The sequence number is stamped
// at cycle start; a concurrently finished newer cycle wins the slot.
func (s *Service) RunCycle(ctx context.Context) (*domain.CacheEntry, error) {
	seq := s.seq.Add(1)
	start := s.clock.Now()

	set, err := s.aggregator.Collect(ctx)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	markup, err := s.renderer.Render(set)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("rendering: %w", err)
	}

	entry := &domain.CacheEntry{
		Markup:        markup,
		Fingerprint:   fingerprint.Compute(set),
		FetchDuration: s.clock.Since(start),
		UpdatedAt:     s.clock.Now(),
		Sequence:      seq,
	}

	prev, stored := s.storeIfNewer(entry)
	metrics.CycleDuration.Observe(s.clock.Since(start).Seconds())

	if !stored {
		metrics.CyclesTotal.WithLabelValues("superseded").Inc()
		slog.Debug("Cycle superseded by newer result", "sequence", seq, "live_sequence", prev.Sequence)
		return prev, nil
	}

	metrics.CyclesTotal.WithLabelValues("success").Inc()
	metrics.CacheSequence.Set(float64(seq))

	// Change-gated: only a fingerprint differing from the previously stored
	// one is worth notifying viewers about. The first fill has no previous
	// fingerprint and no viewer with stale markup, so it stays silent.
	if prev != nil && prev.Fingerprint != entry.Fingerprint {
		slog.Info("View changed, broadcasting refresh", "sequence", seq, "fingerprint", entry.Fingerprint)
		s.hub.Broadcast(domain.Event{Type: domain.EventRefresh})
	} else {
		slog.Debug("View unchanged", "sequence", seq, "fingerprint", entry.Fingerprint)
	}

	return entry, nil
}

// storeIfNewer atomically replaces the cache entry if the candidate carries a
// higher sequence number than the live one. Returns the entry that was live
// before the call and whether the replacement happened.
func (s *Service) storeIfNewer(entry *domain.CacheEntry) (prev *domain.CacheEntry, stored bool) {
	for {
		cur := s.entry.Load()
		if cur != nil && cur.Sequence >= entry.Sequence {
			return cur, false
		}
		if s.entry.CompareAndSwap(cur, entry) {
			return cur, true
		}
	}
}
