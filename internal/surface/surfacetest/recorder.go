// Package surfacetest provides a recording Surface implementation for
// engine tests: every call is captured so tests can assert exactly what
// the reconciler did, and how often.
package surfacetest

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-crash/internal/surface"
)

// FitCall records one FitBounds invocation.
type FitCall struct {
	Bound   orb.Bound
	Padding float64
}

// Shape is a recorded polygon shape.
type Shape struct {
	rec *Recorder

	ID       string
	Geom     orb.Geometry
	Styles   []surface.Style
	Tooltips []string
}

func (s *Shape) SetStyle(st surface.Style) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.Styles = append(s.Styles, st)
}

func (s *Shape) SetTooltip(text string) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.Tooltips = append(s.Tooltips, text)
}

func (s *Shape) Bound() orb.Bound {
	return s.Geom.Bound()
}

// PolygonLayer is the recorded boundary layer.
type PolygonLayer struct {
	rec    *Recorder
	Shapes map[string]*Shape
}

func (l *PolygonLayer) Kind() string { return "polygons" }

func (l *PolygonLayer) AddPolygon(id string, geom orb.Geometry) surface.PolygonShape {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	s := &Shape{rec: l.rec, ID: id, Geom: geom}
	l.Shapes[id] = s
	return s
}

// MarkerLayer is the recorded point layer.
type MarkerLayer struct {
	rec     *Recorder
	Sets    [][]surface.Marker
	Current []surface.Marker
}

func (l *MarkerLayer) Kind() string { return "markers" }

func (l *MarkerLayer) SetMarkers(m []surface.Marker) {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	l.Sets = append(l.Sets, m)
	l.Current = m
}

// RemoteLayer is a recorded remote feature layer.
type RemoteLayer struct {
	URL   string
	Where string
}

func (l *RemoteLayer) Kind() string { return "remote" }

// Recorder implements surface.Surface and records everything.
type Recorder struct {
	mu sync.Mutex

	Resizes  [][2]int
	Polygons *PolygonLayer
	Markers  *MarkerLayer
	Remotes  []*RemoteLayer
	Removed  []surface.Layer
	Attached map[surface.Layer]bool

	ControlSets   [][]surface.Overlay
	ControlClears int
	BackSends     []surface.Layer
	Fits          []FitCall
}

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{Attached: make(map[surface.Layer]bool)}
}

func (r *Recorder) Resize(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resizes = append(r.Resizes, [2]int{w, h})
}

func (r *Recorder) AddPolygonLayer() surface.PolygonLayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Polygons = &PolygonLayer{rec: r, Shapes: make(map[string]*Shape)}
	r.Attached[r.Polygons] = true
	return r.Polygons
}

func (r *Recorder) AddMarkerLayer() surface.MarkerLayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Markers = &MarkerLayer{rec: r}
	r.Attached[r.Markers] = true
	return r.Markers
}

func (r *Recorder) AddRemoteLayer(url, where string) surface.Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := &RemoteLayer{URL: url, Where: where}
	r.Remotes = append(r.Remotes, l)
	r.Attached[l] = true
	return l
}

func (r *Recorder) RemoveLayer(l surface.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Removed = append(r.Removed, l)
	delete(r.Attached, l)
}

func (r *Recorder) SetOverlayControl(overlays []surface.Overlay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ControlSets = append(r.ControlSets, overlays)
}

func (r *Recorder) ClearOverlayControl() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ControlClears++
}

func (r *Recorder) SendToBack(l surface.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BackSends = append(r.BackSends, l)
}

func (r *Recorder) FitBounds(b orb.Bound, padding float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fits = append(r.Fits, FitCall{Bound: b, Padding: padding})
}

// AttachedRemotes returns how many remote layers are currently attached.
func (r *Recorder) AttachedRemotes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for l, ok := range r.Attached {
		if ok && l.Kind() == "remote" {
			n++
		}
	}
	return n
}

// Passes returns the number of full reconciliation passes observed,
// counted by marker set rebuilds.
func (r *Recorder) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Markers == nil {
		return 0
	}
	return len(r.Markers.Sets)
}
