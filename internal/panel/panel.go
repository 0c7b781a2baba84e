package panel

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/joeblew999/plat-crash/internal/refdata"
	"github.com/joeblew999/plat-crash/internal/service"
	"github.com/joeblew999/plat-crash/internal/surface"
)

// RouteField is the feature service attribute the compiled predicate
// filters on.
const RouteField = "Route"

// Config wires a Panel's collaborators. Surface and Regions are
// required; everything else has defaults.
type Config struct {
	Surface    surface.Surface
	Regions    *refdata.Set
	FeatureURL string

	Bus        *service.EventBus
	Clock      Clock
	Debounce   time.Duration
	RetryDelay time.Duration
	MaxRetries int
}

// Panel is the dashboard panel engine: it owns the reconciler and the
// update scheduler, and is the single writer of map state.
type Panel struct {
	surface surface.Surface
	rec     *Reconciler
	sched   *Scheduler
	bus     *service.EventBus

	mu   sync.Mutex
	last ApplyResult
}

// New constructs a panel. A missing rendering surface or an empty
// reference dataset is fatal: nothing can proceed without them.
func New(cfg Config) (*Panel, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("panel: rendering surface is required")
	}
	if cfg.Regions == nil || cfg.Regions.Len() == 0 {
		return nil, fmt.Errorf("panel: reference dataset is required")
	}

	p := &Panel{
		surface: cfg.Surface,
		bus:     cfg.Bus,
	}
	p.rec = NewReconciler(cfg.Surface, cfg.Regions, cfg.FeatureURL)
	p.sched = NewScheduler(SchedulerConfig{
		Run:        p.runCycle,
		Clock:      cfg.Clock,
		Debounce:   cfg.Debounce,
		RetryDelay: cfg.RetryDelay,
		MaxRetries: cfg.MaxRetries,
		Logf:       p.logAbandoned,
	})
	return p, nil
}

// Update is the single entry point for host update events. It never
// blocks and never runs the pipeline inline; the scheduler decides
// when (and whether) the cycle executes.
func (p *Panel) Update(view DataView) {
	p.sched.Request(view)
}

// Close shuts down the scheduler. The last rendered state stays
// visible on the surface.
func (p *Panel) Close() {
	p.sched.Stop()
}

// Last returns the result of the most recent completed cycle.
func (p *Panel) Last() ApplyResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// runCycle is the pipeline the scheduler executes: bind roles,
// aggregate, compile the predicate, reconcile layers.
func (p *Panel) runCycle(view DataView) CycleOutcome {
	if view.Viewport.Width > 0 && view.Viewport.Height > 0 {
		p.surface.Resize(view.Viewport.Width, view.Viewport.Height)
	}

	roles := BindRoles(view.Columns)
	if !roles.HasChoropleth() || !roles.HasPoints() {
		// Core roles missing: nothing sensible to draw this cycle.
		return CycleSkip
	}
	if roles.CategoryFilter == Unassigned {
		// The host populates data roles out of order; the category
		// filter is the one that legitimately lags. Wait for it.
		return CycleRetry
	}

	totals := Aggregate(view.Rows, roles)
	predicate := CompilePredicate(RouteField, CategorySelection(view, roles), InterstateRoutes)
	result := p.rec.Apply(view, roles, totals, predicate)

	p.mu.Lock()
	p.last = result
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(service.Event{
			Kind: "reconciled",
			Detail: map[string]any{
				"regionsTouched": result.RegionsTouched,
				"markers":        result.Markers,
				"predicate":      result.Predicate,
			},
		})
	}
	return CycleDone
}

func (p *Panel) logAbandoned(format string, args ...any) {
	log.Printf(format, args...)
	if p.bus != nil {
		p.bus.Publish(service.Event{
			Kind:   "abandoned",
			Detail: map[string]any{"reason": fmt.Sprintf(format, args...)},
		})
	}
}
