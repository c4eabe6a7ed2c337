package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TickFunc advances the host by one frame. Returning false ends the loop.
// ctx is cancelled when the service stops.
type TickFunc func(ctx context.Context) bool

// TickService calls a TickFunc at a fixed interval on one goroutine. Frames
// that overrun the interval delay the next one; missed ticks are dropped.
type TickService struct {
	interval time.Duration
	tick     TickFunc
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	done    chan struct{}
	ticks   uint64
}

// NewTickService builds a stopped TickService.
//
// Precondition: interval must be positive; tick and logger must be non-nil.
func NewTickService(interval time.Duration, tick TickFunc, logger *zap.Logger) *TickService {
	ctx, cancel := context.WithCancel(context.Background())
	return &TickService{
		interval: interval,
		tick:     tick,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the loop until Stop is called or the TickFunc returns false.
//
// Precondition: Start is called at most once.
func (s *TickService) Start() error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("tick loop started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("tick loop stopped", zap.Uint64("ticks", s.Ticks()))
			return nil
		case <-ticker.C:
			if s.ctx.Err() != nil {
				continue
			}
			more := s.tick(s.ctx)
			s.mu.Lock()
			s.ticks++
			s.mu.Unlock()
			if !more {
				s.logger.Info("tick loop finished", zap.Uint64("ticks", s.Ticks()))
				return nil
			}
		}
	}
}

// Stop cancels the loop's context and waits for the frame in progress to
// finish. Stopping twice, or before Start, is safe.
func (s *TickService) Stop() {
	s.cancel()
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		<-s.done
	}
}

// Ticks returns how many frames have run.
func (s *TickService) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
