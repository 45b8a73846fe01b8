// Package stopwatch provides wall-clock elapsed-time tracking for exam
// sessions. Both timers anchor on an absolute start timestamp and recompute
// elapsed time as now-anchor, so repeated ticks never accumulate scheduling
// drift. Exactly one tick goroutine is live per running timer and it is
// cancelled synchronously on pause, reset and stop.
package stopwatch

import (
	"context"
	"sync"
	"time"
)

// Stopwatch counts elapsed wall-clock time upward, surviving pause/resume
// without losing accumulated time.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	anchor  time.Time     // valid while running
	frozen  time.Duration // elapsed value while paused
	running bool

	onTick func(seconds int)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped stopwatch. onTick, when non-nil, receives the
// current elapsed seconds roughly once per second while running; it is a
// display-facing side effect, never an input to scoring.
func New(onTick func(seconds int)) *Stopwatch {
	return NewWithClock(time.Now, onTick)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time, onTick func(seconds int)) *Stopwatch {
	return &Stopwatch{now: now, onTick: onTick}
}

// Start begins (or resumes) ticking. No-op when already running. The anchor
// is rewound by the already-accumulated time so Elapsed continues from
// where Pause left it.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.anchor = s.now().Add(-s.frozen)
	s.running = true
	s.startTickerLocked()
	s.mu.Unlock()
}

// Pause stops ticking and freezes the elapsed value.
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.frozen = s.now().Sub(s.anchor)
	s.running = false
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	stopTicker(cancel, done)
}

// Reset stops the stopwatch and sets elapsed time to newElapsed (use zero
// for a full reset), re-anchoring to now.
func (s *Stopwatch) Reset(newElapsed time.Duration) {
	s.mu.Lock()
	s.frozen = newElapsed
	s.anchor = s.now()
	s.running = false
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	stopTicker(cancel, done)
}

// Elapsed returns the current elapsed time, recomputed from the anchor.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

// Seconds returns Elapsed rounded to whole seconds.
func (s *Stopwatch) Seconds() int {
	return int(s.Elapsed().Round(time.Second) / time.Second)
}

// Running reports whether the stopwatch is ticking.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	if s.running {
		return s.now().Sub(s.anchor)
	}
	return s.frozen
}

// startTickerLocked launches the single tick goroutine. Caller holds s.mu.
func (s *Stopwatch) startTickerLocked() {
	if s.onTick == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				secs := int(s.elapsedLocked().Round(time.Second) / time.Second)
				running := s.running
				s.mu.Unlock()
				if running {
					s.onTick(secs)
				}
			}
		}
	}()
}

// stopTicker cancels a tick goroutine and waits for it to exit, so no
// orphaned interval outlives the timer that owned it.
func stopTicker(cancel context.CancelFunc, done chan struct{}) {
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
