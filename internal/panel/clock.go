package panel

import "time"

// Clock creates timers. The scheduler takes its timers through this
// seam so tests can drive debounce and retry deterministically instead
// of sleeping.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

// Timer is a one-shot timer. Stop also drains an already-fired value,
// so a stopped timer never delivers late.
type Timer interface {
	C() <-chan time.Time
	Stop()
}

// RealClock backs timers with the runtime clock.
type RealClock struct{}

func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{t: time.NewTimer(d)}
}

type realTimer struct {
	t *time.Timer
}

func (r *realTimer) C() <-chan time.Time {
	return r.t.C
}

func (r *realTimer) Stop() {
	if !r.t.Stop() {
		select {
		case <-r.t.C:
		default:
		}
	}
}
