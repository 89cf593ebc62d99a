package sandbox

import (
	"context"
	"errors"
	"time"

	"github.com/zeusync/rebound/internal/core/observability/log"
)

// Ticker is the periodic trigger of the loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. The default wraps time.Ticker.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

type loopHandle struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the loop and waits for it. Safe on nil and when the loop has
// already ended.
func (h *loopHandle) stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (s *Sandbox) startLoopLocked() *loopHandle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &loopHandle{ctx: ctx, cancel: cancel, done: make(chan struct{})}
	s.loop = h
	return h
}

// run ticks at the configured cadence until the bodies rest, the launch is
// aborted or the sandbox closes.
func (s *Sandbox) run(h *loopHandle) {
	defer close(h.done)
	defer h.cancel()

	ticker := s.clock.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.logger.Debug("Loop started", log.Duration("interval", s.cfg.TickInterval))
	defer s.logger.Debug("Loop stopped")

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C():
			atRest, err := s.Tick()
			switch {
			case errors.Is(err, ErrTickInProgress):
				continue
			case err != nil:
				return
			case atRest:
				return
			}
		}
	}
}

// Wait blocks until the current loop, if any, has ended or ctx is done.
func (s *Sandbox) Wait(ctx context.Context) error {
	s.mu.Lock()
	h := s.loop
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
