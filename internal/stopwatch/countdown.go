package stopwatch

import (
	"context"
	"sync"
	"time"
)

// WarningWindow is how much remaining time puts a countdown into its
// warning state.
const WarningWindow = 10 * time.Second

// Countdown counts down from an initial budget and fires an optional
// timeout callback exactly once when it reaches zero. Same anchor-based
// arithmetic as Stopwatch: remaining time is always recomputed, never
// decremented.
type Countdown struct {
	mu      sync.Mutex
	now     func() time.Time
	initial time.Duration
	anchor  time.Time
	frozen  time.Duration // elapsed while paused
	running bool
	expired bool

	onTick    func(remaining int)
	onTimeout func()
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCountdown creates a paused countdown with the given budget. Callbacks
// may be nil.
func NewCountdown(initial time.Duration, onTick func(remaining int), onTimeout func()) *Countdown {
	return NewCountdownWithClock(time.Now, initial, onTick, onTimeout)
}

// NewCountdownWithClock is NewCountdown with an injectable clock.
func NewCountdownWithClock(now func() time.Time, initial time.Duration, onTick func(remaining int), onTimeout func()) *Countdown {
	return &Countdown{
		now:       now,
		initial:   initial,
		onTick:    onTick,
		onTimeout: onTimeout,
	}
}

// Start begins (or resumes) the countdown. No-op when already running or
// already expired.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.running || c.expired {
		c.mu.Unlock()
		return
	}
	c.anchor = c.now().Add(-c.frozen)
	c.running = true
	c.startTickerLocked()
	c.mu.Unlock()
}

// Pause stops ticking; the remaining value freezes.
func (c *Countdown) Pause() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.frozen = c.now().Sub(c.anchor)
	c.running = false
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	stopTicker(cancel, done)
}

// Reset stops the countdown and restores the budget. A positive newInitial
// replaces the budget; zero keeps the original one.
func (c *Countdown) Reset(newInitial time.Duration) {
	c.mu.Lock()
	if newInitial > 0 {
		c.initial = newInitial
	}
	c.frozen = 0
	c.anchor = c.now()
	c.running = false
	c.expired = false
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	stopTicker(cancel, done)
}

// Remaining returns the time left, clamped at zero. Observing zero while
// running expires the countdown and fires the timeout callback once.
func (c *Countdown) Remaining() time.Duration {
	remaining, fire := c.snapshot()
	if fire != nil {
		fire()
	}
	return remaining
}

// Elapsed returns time consumed across pause/resume cycles.
func (c *Countdown) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return c.now().Sub(c.anchor)
	}
	return c.frozen
}

// Warning reports whether the countdown is inside its final warning window.
func (c *Countdown) Warning() bool {
	r := c.Remaining()
	return r > 0 && r <= WarningWindow
}

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// snapshot computes remaining time and, on first observation of expiry,
// marks the countdown expired and returns the timeout callback to invoke
// outside the lock.
func (c *Countdown) snapshot() (time.Duration, func()) {
	c.mu.Lock()

	var elapsed time.Duration
	if c.running {
		elapsed = c.now().Sub(c.anchor)
	} else {
		elapsed = c.frozen
	}

	remaining := c.initial - elapsed
	if remaining > 0 {
		c.mu.Unlock()
		return remaining, nil
	}

	if c.expired || !c.running {
		c.mu.Unlock()
		return 0, nil
	}

	// First observation of expiry: freeze at the full budget and stop.
	c.expired = true
	c.running = false
	c.frozen = c.initial
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	onTimeout := c.onTimeout
	c.mu.Unlock()

	return 0, func() {
		stopTicker(cancel, done)
		if onTimeout != nil {
			onTimeout()
		}
	}
}

func (c *Countdown) startTickerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining, fire := c.snapshot()
				if c.onTick != nil {
					c.onTick(int(remaining.Round(time.Second) / time.Second))
				}
				if fire != nil {
					go fire() // fire stops this goroutine; avoid self-join
					return
				}
			}
		}
	}()
}
