package learning

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultFlushInterval matches the original panel's 30 second learning
// update timer.
const defaultFlushInterval = 30 * time.Second

// Scheduler periodically folds recent actions into learned patterns and
// flushes dirty data to disk. Start and Stop are idempotent and
// thread-safe.
type Scheduler struct {
	interval time.Duration
	store    *Store
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval overrides the default flush interval.
func WithInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

// NewScheduler creates a scheduler for the given store. logger may be
// nil.
func NewScheduler(store *Store, logger *zap.Logger, opts ...SchedulerOption) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		interval: defaultFlushInterval,
		store:    store,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins the background loop. Returns an error when already
// running.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	s.logger.Info("learning scheduler started", zap.Duration("interval", s.interval))
	go s.run(s.stopCh, s.done)
	return nil
}

// Stop signals the loop to finish, waits for it, and flushes once more
// so nothing recorded after the last tick is lost.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	<-done
	s.store.UpdateLearning()
	if err := s.store.Flush(); err != nil {
		s.logger.Warn("final learning flush failed", zap.Error(err))
	}
	s.logger.Info("learning scheduler stopped")
}

func (s *Scheduler) run(stopCh, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.store.UpdateLearning()
			if err := s.store.Flush(); err != nil {
				s.logger.Warn("learning flush failed", zap.Error(err))
			}
		}
	}
}
