// Package web implements surface.Surface for a browser client. The
// surface keeps a JSON-friendly snapshot of everything the panel has
// drawn; the server streams that snapshot to the browser as Datastar
// signal patches, and the browser's map library renders it. Remote
// feature layers are fetched here, fire-and-forget, and pushed as
// custom events.
package web

import (
	"context"
	"log"
	"sync"

	"github.com/paulmach/orb"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/joeblew999/plat-crash/internal/feature"
	"github.com/joeblew999/plat-crash/internal/service"
	"github.com/joeblew999/plat-crash/internal/surface"
)

// RegionState is the drawable state of one county boundary.
type RegionState struct {
	Style   surface.Style `json:"style"`
	Tooltip string        `json:"tooltip,omitempty"`
}

// RemoteState describes the active remote feature layer.
type RemoteState struct {
	URL   string `json:"url"`
	Where string `json:"where"`
}

// FitState is a pending camera fit request.
type FitState struct {
	MinLon  float64 `json:"minLon"`
	MinLat  float64 `json:"minLat"`
	MaxLon  float64 `json:"maxLon"`
	MaxLat  float64 `json:"maxLat"`
	Padding float64 `json:"padding"`
}

// Snapshot is the full drawable state pushed to the browser.
type Snapshot struct {
	Viewport [2]int                 `json:"viewport"`
	Regions  map[string]RegionState `json:"regions"`
	Markers  []surface.Marker       `json:"markers"`
	Remote   *RemoteState           `json:"remote,omitempty"`
	Overlays []string               `json:"overlays"`
	Fit      *FitState              `json:"fit,omitempty"`
	Seq      int                    `json:"seq"`
}

// Surface is the browser-backed rendering surface.
type Surface struct {
	bus *service.EventBus

	mu       sync.Mutex
	regions  map[string]RegionState
	bounds   map[string]orb.Bound
	viewport [2]int
	markers  []surface.Marker
	remote   *remoteLayer
	overlays []string
	fit      *FitState
	seq      int
}

// New creates a web surface publishing change events on bus.
func New(bus *service.EventBus) *Surface {
	return &Surface{
		bus:     bus,
		regions: make(map[string]RegionState),
		bounds:  make(map[string]orb.Bound),
	}
}

// Snapshot returns a copy of the current drawable state.
func (s *Surface) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	regions := make(map[string]RegionState, len(s.regions))
	for k, v := range s.regions {
		regions[k] = v
	}

	snap := Snapshot{
		Viewport: s.viewport,
		Regions:  regions,
		Markers:  append([]surface.Marker(nil), s.markers...),
		Overlays: append([]string(nil), s.overlays...),
		Fit:      s.fit,
		Seq:      s.seq,
	}
	if s.remote != nil {
		snap.Remote = &RemoteState{URL: s.remote.url, Where: s.remote.where}
	}
	return snap
}

// Stream pushes the snapshot to one browser over Datastar SSE: once on
// connect, then again after every panel event. Blocks until ctx ends.
func (s *Surface) Stream(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	send := func() error {
		return sse.MarshalAndPatchSignals(map[string]any{"panel": s.Snapshot()})
	}
	if err := send(); err != nil {
		return err
	}

	ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			sse.DispatchCustomEvent("panel-"+ev.Kind, ev.Detail)
			if err := send(); err != nil {
				return err
			}
		}
	}
}

// Surface interface

func (s *Surface) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = [2]int{w, h}
	s.seq++
}

func (s *Surface) AddPolygonLayer() surface.PolygonLayer {
	return &polygonLayer{s: s}
}

func (s *Surface) AddMarkerLayer() surface.MarkerLayer {
	return &markerLayer{s: s}
}

func (s *Surface) AddRemoteLayer(url, where string) surface.Layer {
	l := &remoteLayer{url: url, where: where}

	s.mu.Lock()
	s.remote = l
	s.seq++
	s.mu.Unlock()

	// Fire-and-forget: the panel never waits on remote features. The
	// browser gets them as a custom event whenever they arrive.
	if url != "" {
		go s.fetchFeatures(url, where)
	}
	return l
}

func (s *Surface) fetchFeatures(url, where string) {
	fc, err := feature.NewClient(url).Query(context.Background(), where)
	if err != nil {
		log.Printf("web surface: remote features: %v", err)
		return
	}

	s.mu.Lock()
	stale := s.remote == nil || s.remote.url != url || s.remote.where != where
	s.mu.Unlock()
	if stale {
		return
	}

	if s.bus != nil {
		s.bus.Publish(service.Event{
			Kind: "remote-features",
			Detail: map[string]any{
				"where":    where,
				"features": fc,
			},
		})
	}
}

func (s *Surface) RemoveLayer(l surface.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := l.(*remoteLayer); ok && s.remote == r {
		s.remote = nil
	}
	s.seq++
}

func (s *Surface) SetOverlayControl(overlays []surface.Overlay) {
	names := make([]string, 0, len(overlays))
	for _, o := range overlays {
		names = append(names, o.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = names
	s.seq++
}

func (s *Surface) ClearOverlayControl() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = nil
	s.seq++
}

func (s *Surface) SendToBack(l surface.Layer) {
	// The browser renders boundaries in a dedicated pane below markers
	// and remote features, so stacking is structural there.
}

func (s *Surface) FitBounds(b orb.Bound, padding float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fit = &FitState{
		MinLon:  b.Min[0],
		MinLat:  b.Min[1],
		MaxLon:  b.Max[0],
		MaxLat:  b.Max[1],
		Padding: padding,
	}
	s.seq++
}

type polygonLayer struct {
	s *Surface
}

func (l *polygonLayer) Kind() string { return "polygons" }

func (l *polygonLayer) AddPolygon(id string, geom orb.Geometry) surface.PolygonShape {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.regions[id] = RegionState{}
	l.s.bounds[id] = geom.Bound()
	return &polygonShape{s: l.s, id: id}
}

type polygonShape struct {
	s  *Surface
	id string
}

func (p *polygonShape) SetStyle(st surface.Style) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	r := p.s.regions[p.id]
	r.Style = st
	p.s.regions[p.id] = r
	p.s.seq++
}

func (p *polygonShape) SetTooltip(text string) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	r := p.s.regions[p.id]
	r.Tooltip = text
	p.s.regions[p.id] = r
	p.s.seq++
}

func (p *polygonShape) Bound() orb.Bound {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.bounds[p.id]
}

type markerLayer struct {
	s *Surface
}

func (l *markerLayer) Kind() string { return "markers" }

func (l *markerLayer) SetMarkers(m []surface.Marker) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.markers = m
	l.s.seq++
}

type remoteLayer struct {
	url   string
	where string
}

func (l *remoteLayer) Kind() string { return "remote" }
