package panel

import (
	"log"
	"reflect"
	"time"
)

// Scheduler defaults.
const (
	DefaultDebounce   = 150 * time.Millisecond
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultMaxRetries = 5
)

// CycleOutcome is the result of one pipeline attempt.
type CycleOutcome int

const (
	// CycleDone marks a completed pass; the dataset counts as fully
	// processed for change suppression.
	CycleDone CycleOutcome = iota
	// CycleSkip aborts the cycle without retrying, e.g. when the
	// coordinate or region roles are unassigned.
	CycleSkip
	// CycleRetry asks for a bounded re-attempt, used while the category
	// filter role has not been populated by the host yet.
	CycleRetry
)

// SchedulerConfig configures a Scheduler. Zero values pick defaults.
type SchedulerConfig struct {
	Run        func(DataView) CycleOutcome
	Clock      Clock
	Debounce   time.Duration
	RetryDelay time.Duration
	MaxRetries int
	Logf       func(format string, args ...any)
}

// Scheduler gates how often the reconciliation pipeline runs. Inbound
// update requests are debounced so only the last request of a burst
// executes; a lagging category-filter role triggers bounded retries
// with a fixed delay. Everything runs on one goroutine, so at most one
// cycle is ever in flight and a fresh request cancels any pending
// debounce or retry wait.
type Scheduler struct {
	cfg     SchedulerConfig
	updates chan DataView
	quit    chan struct{}
	stopped chan struct{}
}

// NewScheduler starts a scheduler. Call Stop to shut it down.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}

	s := &Scheduler{
		cfg:     cfg,
		updates: make(chan DataView, 16),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.loop()
	return s
}

// Request asks for a reconciliation cycle with the given dataset. Safe
// to call from any goroutine; the newest dataset wins within a burst.
func (s *Scheduler) Request(view DataView) {
	select {
	case s.updates <- view:
	case <-s.quit:
	}
}

// Stop shuts the scheduler down and waits for its goroutine to exit.
func (s *Scheduler) Stop() {
	close(s.quit)
	<-s.stopped
}

func (s *Scheduler) loop() {
	defer close(s.stopped)

	var (
		pending    DataView
		hasPending bool
		last       DataView
		hasLast    bool
		retries    int

		debounceT Timer
		debounceC <-chan time.Time
		retryT    Timer
		retryC    <-chan time.Time
	)

	stopDebounce := func() {
		if debounceT != nil {
			debounceT.Stop()
			debounceT, debounceC = nil, nil
		}
	}
	stopRetry := func() {
		if retryT != nil {
			retryT.Stop()
			retryT, retryC = nil, nil
		}
	}

	// attempt runs the pipeline once and routes the outcome.
	attempt := func() {
		switch s.cfg.Run(pending) {
		case CycleDone:
			last, hasLast = pending, true
			retries = 0
		case CycleSkip:
			retries = 0
		case CycleRetry:
			if retries >= s.cfg.MaxRetries {
				s.cfg.Logf("panel: update cycle abandoned, category filter role still unassigned after %d retries", s.cfg.MaxRetries)
				retries = 0
				return
			}
			retries++
			retryT = s.cfg.Clock.NewTimer(s.cfg.RetryDelay)
			retryC = retryT.C()
		}
	}

	for {
		select {
		case <-s.quit:
			stopDebounce()
			stopRetry()
			return

		case v := <-s.updates:
			// A fresh request supersedes any pending debounce or retry
			// wait; the quiet period restarts from scratch.
			pending, hasPending = v, true
			retries = 0
			stopRetry()
			stopDebounce()
			debounceT = s.cfg.Clock.NewTimer(s.cfg.Debounce)
			debounceC = debounceT.C()

		case <-debounceC:
			debounceT, debounceC = nil, nil
			if !hasPending {
				continue
			}
			// Change suppression: identical input means the layers are
			// already right, so the cycle never starts.
			if hasLast && reflect.DeepEqual(pending, last) {
				continue
			}
			attempt()

		case <-retryC:
			retryT, retryC = nil, nil
			attempt()
		}
	}
}
