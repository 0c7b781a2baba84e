package panel

import (
	"sync"
	"testing"
	"time"
)

// fakeClock hands out timers that only fire when the test says so.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	ch      chan time.Time
	d       time.Duration
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{}
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, ch: make(chan time.Time, 1), d: d}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTimer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

// count returns how many timers have been created so far.
func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// fireLatest fires the most recently created live timer.
func (c *fakeClock) fireLatest(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.timers) - 1; i >= 0; i-- {
		if !c.timers[i].stopped {
			c.timers[i].ch <- time.Now()
			return
		}
	}
	t.Fatal("no live timer to fire")
}

// waitTimers blocks until at least n timers exist.
func (c *fakeClock) waitTimers(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.count() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d timers, have %d", n, c.count())
}

func TestRealClockTimerFires(t *testing.T) {
	timer := RealClock{}.NewTimer(time.Millisecond)
	select {
	case <-timer.C():
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestRealClockStopDrainsFiredTimer(t *testing.T) {
	timer := RealClock{}.NewTimer(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	timer.Stop()
	select {
	case <-timer.C():
		t.Fatal("stopped timer delivered late")
	default:
	}
}
