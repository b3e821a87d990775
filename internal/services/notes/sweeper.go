package notes

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is the period between two expiration sweeps.
const DefaultSweepInterval = time.Minute

// Pruner removes trashed notes that outlived the retention window.
type Pruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int, error)
}

// Sweeper periodically prunes expired notes from the trash.
type Sweeper struct {
	pruner   Pruner
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a stopped sweeper. A non-positive interval means DefaultSweepInterval.
func NewSweeper(pruner Pruner, interval time.Duration, now func() time.Time, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		pruner:   pruner,
		interval: interval,
		now:      now,
		log:      log,
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)

	s.log.Info("trash sweeper started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for it to exit. No sweep runs after Stop returns.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	s.log.Info("trash sweeper stopped")
}

// Sweep runs a single prune at the current time.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	removed, err := s.pruner.PruneExpired(ctx, s.now())
	if err != nil {
		s.log.Error("trash sweep failed", "error", err, "removed", removed)
	}
	return removed, err
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// a tick racing with cancellation must not sweep
			if ctx.Err() != nil {
				return
			}
			_, _ = s.Sweep(ctx)
		}
	}
}
