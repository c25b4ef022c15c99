package game

import (
	"sync"
	"time"
)

// Timer is the single round countdown. Start implicitly cancels any prior
// countdown, so at most one is ever running.
type Timer struct {
	interval time.Duration

	mu     sync.Mutex
	cancel chan struct{}
}

// NewTimer builds a countdown ticking at the given interval (one second in
// normal play; tests shrink it).
func NewTimer(interval time.Duration) *Timer {
	return &Timer{interval: interval}
}

// Start begins a countdown of budget ticks. onTick receives the remaining
// tick count after each tick; onExpire fires exactly once when the countdown
// reaches zero, unless Stop or a new Start intervenes.
func (t *Timer) Start(budget int, onTick func(remaining int), onExpire func()) {
	t.mu.Lock()
	t.stopLocked()
	stop := make(chan struct{})
	t.cancel = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		remaining := budget
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				remaining--
				if onTick != nil {
					onTick(remaining)
				}
				if remaining <= 0 {
					onExpire()
					return
				}
			}
		}
	}()
}

// Stop cancels the running countdown, if any.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
}
