// Package countdown implements the session countdown shown on the console.
package countdown

import (
	"fmt"
	"sync"
	"time"
)

const (
	// Period is the interval between ticks.
	Period = time.Second
	// WarningThreshold is the remaining time at or below which the display turns red.
	WarningThreshold = 30 * time.Second
)

// State is RUNNING until the deadline passes, then EXPIRED for good.
type State int

const (
	Running State = iota
	Expired
)

func (s State) String() string {
	if s == Expired {
		return "EXPIRED"
	}
	return "RUNNING"
}

// Tick is the evaluation of the countdown at one instant.
type Tick struct {
	Remaining time.Duration
	Warning   bool
	Display   string
	Expired   bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock swaps the wall clock.
func WithClock(c Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.clock = c
		}
	}
}

// OnTick registers a callback for every running tick.
func OnTick(fn func(Tick)) Option {
	return func(t *Timer) { t.onTick = fn }
}

// OnExpire registers the callback run once when the deadline passes.
func OnExpire(fn func()) Option {
	return func(t *Timer) { t.onExpire = fn }
}

// Timer counts down to an absolute deadline.
type Timer struct {
	deadline time.Time
	clock    Clock
	onTick   func(Tick)
	onExpire func()

	mu      sync.Mutex
	state   State
	expire  sync.Once
	stopped chan struct{}
	stop    sync.Once
	done    chan struct{}
	started bool
}

// New builds a timer for deadline. It does not tick until Start.
func New(deadline time.Time, opts ...Option) *Timer {
	t := &Timer{
		deadline: deadline,
		clock:    SystemClock{},
		stopped:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Deadline returns the absolute deadline.
func (t *Timer) Deadline() time.Time { return t.deadline }

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Evaluate computes the tick for now without side effects.
func (t *Timer) Evaluate(now time.Time) Tick {
	remaining := t.deadline.Sub(now)
	if remaining <= 0 {
		return Tick{Expired: true, Warning: true, Display: Format(0)}
	}
	return Tick{
		Remaining: remaining,
		Warning:   remaining <= WarningThreshold,
		Display:   Format(remaining),
	}
}

// Tick evaluates the countdown at now and runs the callbacks. Once expired every
// later tick is ignored and OnExpire has run exactly once.
func (t *Timer) Tick(now time.Time) Tick {
	tick := t.Evaluate(now)

	t.mu.Lock()
	if t.state == Expired {
		t.mu.Unlock()
		return Tick{Expired: true, Warning: true, Display: Format(0)}
	}
	if tick.Expired {
		t.state = Expired
	}
	t.mu.Unlock()

	if !tick.Expired {
		if t.onTick != nil {
			t.onTick(tick)
		}
		return tick
	}
	t.expire.Do(func() {
		if t.onExpire != nil {
			t.onExpire()
		}
	})
	return tick
}

// Start ticks immediately and then every Period on its own goroutine until the
// deadline passes or Stop is called. Later ticks are evaluated at the time the
// ticker delivered. Calling Start twice is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	if t.Tick(t.clock.Now()).Expired {
		close(t.done)
		return
	}
	ticker := t.clock.NewTicker(Period)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-t.stopped:
				return
			case now := <-ticker.Chan():
				select {
				case <-t.stopped:
					return
				default:
				}
				if t.Tick(now).Expired {
					return
				}
			}
		}
	}()
}

// Stop cancels future ticks. It is safe to call more than once.
func (t *Timer) Stop() {
	t.stop.Do(func() { close(t.stopped) })
}

// Done is closed when the ticking goroutine exits.
func (t *Timer) Done() <-chan struct{} { return t.done }

// Format renders a remaining duration as zero padded MM:SS. Minutes are not
// wrapped at the hour.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
