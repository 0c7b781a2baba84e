package panel

import (
	"testing"
	"time"

	"github.com/joeblew999/plat-crash/internal/service"
	"github.com/joeblew999/plat-crash/internal/surface/surfacetest"
)

func newTestPanel(t *testing.T, rec *surfacetest.Recorder, clock Clock, bus *service.EventBus) *Panel {
	t.Helper()
	p, err := New(Config{
		Surface:    rec,
		Regions:    fixtureRegions(t),
		FeatureURL: testFeatureURL,
		Bus:        bus,
		Clock:      clock,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)
	return p
}

// waitLast polls until the panel reports a completed cycle matching ok.
func waitLast(t *testing.T, p *Panel, ok func(ApplyResult) bool) ApplyResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if last := p.Last(); ok(last) {
			return last
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for cycle, last=%+v", p.Last())
	return ApplyResult{}
}

func TestNewPanelRequiresSurfaceAndRegions(t *testing.T) {
	if _, err := New(Config{Regions: fixtureRegions(t)}); err == nil {
		t.Fatal("expected error without a rendering surface")
	}
	if _, err := New(Config{Surface: surfacetest.New()}); err == nil {
		t.Fatal("expected error without a reference dataset")
	}
}

func TestPanelEndToEnd(t *testing.T) {
	clock := newFakeClock()
	rec := surfacetest.New()
	bus := service.NewEventBus()
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)

	p := newTestPanel(t, rec, clock, bus)

	view := fullView([]Row{{35.5, -79.2, "37063", 120.0, "I-40"}})
	view.Viewport = Viewport{Width: 800, Height: 600}
	p.Update(view)

	clock.waitTimers(t, 1)
	clock.fireLatest(t)

	last := waitLast(t, p, func(r ApplyResult) bool { return r.RegionsTouched == 1 })
	if last.Markers != 1 {
		t.Fatalf("markers=%d, want 1", last.Markers)
	}
	if last.Predicate != "Route IN ('I-40')" {
		t.Fatalf("predicate=%q, want Route IN ('I-40')", last.Predicate)
	}

	durham := rec.Polygons.Shapes["37063"]
	st := durham.Styles[len(durham.Styles)-1]
	if want := ChoroplethPalette.Color(3); st.FillColor != want {
		t.Fatalf("durham fill=%q, want class 3 color %q", st.FillColor, want)
	}

	m := rec.Markers.Current[0]
	if m.Lat != 35.5 || m.Lon != -79.2 {
		t.Fatalf("marker at %v,%v, want 35.5,-79.2", m.Lat, m.Lon)
	}

	if len(rec.Resizes) != 1 || rec.Resizes[0] != [2]int{800, 600} {
		t.Fatalf("resizes=%v, want one 800x600", rec.Resizes)
	}

	select {
	case ev := <-events:
		if ev.Kind != "reconciled" {
			t.Fatalf("event kind=%q, want reconciled", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("no reconciled event published")
	}
}

func TestPanelChangeSuppressionEndToEnd(t *testing.T) {
	clock := newFakeClock()
	rec := surfacetest.New()
	p := newTestPanel(t, rec, clock, nil)

	view := fullView([]Row{{35.5, -79.2, "37063", 120.0, "I-40"}})
	p.Update(view)
	clock.waitTimers(t, 1)
	clock.fireLatest(t)
	waitLast(t, p, func(r ApplyResult) bool { return r.RegionsTouched == 1 })

	// Same dataset again: one layer mutation pass total, not two.
	p.Update(fullView([]Row{{35.5, -79.2, "37063", 120.0, "I-40"}}))
	clock.waitTimers(t, 2)
	clock.fireLatest(t)

	// A third, different dataset proves the scheduler is still alive.
	p.Update(fullView([]Row{{35.2, -80.9, "37119", 30.0, "I-77"}}))
	clock.waitTimers(t, 3)
	clock.fireLatest(t)
	waitLast(t, p, func(r ApplyResult) bool { return r.Predicate == "Route IN ('I-77')" })

	if got := rec.Passes(); got != 2 {
		t.Fatalf("mutation passes=%d, want 2 (identical input suppressed)", got)
	}
}

func TestPanelMissingGeoRolesSkipsCycle(t *testing.T) {
	clock := newFakeClock()
	rec := surfacetest.New()
	p := newTestPanel(t, rec, clock, nil)

	view := DataView{
		Columns: []Column{
			{Name: "FIPS", Roles: []string{RoleRegionKey}},
			{Name: "Crashes", Roles: []string{RoleWeightMeasure}},
		},
		Rows: []Row{{"37063", 120.0}},
	}
	p.Update(view)
	clock.waitTimers(t, 1)
	clock.fireLatest(t)

	time.Sleep(20 * time.Millisecond)
	if got := rec.Passes(); got != 0 {
		t.Fatalf("passes=%d, want 0 without coordinate roles", got)
	}
	if clock.count() != 1 {
		t.Fatalf("timers=%d, want 1 (missing geo roles never retry)", clock.count())
	}
}

func TestPanelLaggingCategoryRoleRetries(t *testing.T) {
	clock := newFakeClock()
	rec := surfacetest.New()
	bus := service.NewEventBus()
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)

	p := newTestPanel(t, rec, clock, bus)

	// Everything but the category filter role is bound: the engine
	// waits for the host to populate it instead of giving up.
	view := DataView{
		Columns: []Column{
			{Name: "Latitude", Roles: []string{RoleLatitude}},
			{Name: "Longitude", Roles: []string{RoleLongitude}},
			{Name: "FIPS", Roles: []string{RoleRegionKey}},
			{Name: "Crashes", Roles: []string{RoleWeightMeasure}},
		},
		Rows: []Row{{35.5, -79.2, "37063", 120.0}},
	}
	p.Update(view)
	clock.waitTimers(t, 1)
	clock.fireLatest(t)

	for i := 0; i < DefaultMaxRetries; i++ {
		clock.waitTimers(t, 2+i)
		clock.fireLatest(t)
	}

	select {
	case ev := <-events:
		if ev.Kind != "abandoned" {
			t.Fatalf("event kind=%q, want abandoned", ev.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no abandonment event after retry budget exhausted")
	}
	if got := rec.Passes(); got != 0 {
		t.Fatalf("passes=%d, want 0 (last rendered state stays)", got)
	}
}

func TestPanelEmptyRowsDoNotCrash(t *testing.T) {
	clock := newFakeClock()
	rec := surfacetest.New()
	p := newTestPanel(t, rec, clock, nil)

	p.Update(fullView(nil))
	clock.waitTimers(t, 1)
	clock.fireLatest(t)

	last := waitLast(t, p, func(r ApplyResult) bool { return r.Predicate != "" })
	if last.Predicate != AlwaysFalsePredicate {
		t.Fatalf("predicate=%q, want always-false with no categories observed", last.Predicate)
	}
	if last.Markers != 0 || last.RegionsTouched != 0 {
		t.Fatalf("last=%+v, want nothing touched", last)
	}
	if len(rec.Fits) != 0 {
		t.Fatal("camera must not move when no region was touched")
	}
}
