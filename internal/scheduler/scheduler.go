package scheduler

import (
	"context"
	"sync"
	"time"

	"gift-auctions/utils"
)

// DefaultInterval is how often the scheduler polls for due work.
const DefaultInterval = time.Second

// Driver is the slice of the auction lifecycle the scheduler drives each
// tick.
type Driver interface {
	ProcessScheduledAuctions(ctx context.Context) error
	ProcessEndingRounds(ctx context.Context) error
}

// RoundScheduler polls the store for auctions whose scheduled start or round
// deadline has passed. Polling keeps multiple instances safe: every tick is
// idempotent and per-auction leases decide which instance does the work. A
// failed tick is logged and the next one proceeds.
type RoundScheduler struct {
	driver   Driver
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRoundScheduler creates a scheduler over the given driver. A
// non-positive interval falls back to DefaultInterval.
func NewRoundScheduler(driver Driver, interval time.Duration) *RoundScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RoundScheduler{
		driver:   driver,
		interval: interval,
	}
}

// Start launches the periodic driver. Starting a running scheduler is a
// no-op.
func (s *RoundScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		utils.Warn("scheduler already running", nil)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)

	utils.Info("scheduler started", map[string]any{"interval": s.interval.String()})
}

// Stop cancels the periodic driver and waits for the in-flight tick to
// finish. Stopping a stopped scheduler is a no-op.
func (s *RoundScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	utils.Info("scheduler stopped", nil)
}

// IsRunning reports whether the periodic driver is active.
func (s *RoundScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *RoundScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one poll. Errors and panics are contained here so a bad tick
// never takes the scheduler down.
func (s *RoundScheduler) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("scheduler tick panicked", map[string]any{"panic": r})
		}
	}()

	if err := s.driver.ProcessScheduledAuctions(ctx); err != nil {
		utils.Error("scheduler tick: processing scheduled auctions failed", map[string]any{"error": err.Error()})
	}
	if err := s.driver.ProcessEndingRounds(ctx); err != nil {
		utils.Error("scheduler tick: processing ending rounds failed", map[string]any{"error": err.Error()})
	}
}
