// Package surface abstracts the map rendering toolkit behind a small
// capability interface. The panel engine only ever talks to a Surface;
// concrete implementations (browser push via SSE, recording fakes for
// tests) own all visual object lifecycles.
package surface

import "github.com/paulmach/orb"

// Style describes how a shape is drawn.
type Style struct {
	FillColor   string  `json:"fillColor,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
	Color       string  `json:"color,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
}

// Marker is a single point representation. Markers carry no identity;
// the whole set is replaced on every update cycle.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color,omitempty"`
	Popup string  `json:"popup,omitempty"`
}

// Layer is an opaque handle to something attached to the map.
type Layer interface {
	// Kind identifies the layer type: "polygons", "markers" or "remote".
	Kind() string
}

// PolygonShape is a handle to a single rendered boundary polygon.
type PolygonShape interface {
	SetStyle(Style)
	// SetTooltip binds hover text to the shape, replacing any previous
	// binding. An empty string unbinds.
	SetTooltip(text string)
	Bound() orb.Bound
}

// PolygonLayer holds boundary shapes. Shapes are added once and then
// only restyled; they live until the layer is removed.
type PolygonLayer interface {
	Layer
	AddPolygon(id string, geom orb.Geometry) PolygonShape
}

// MarkerLayer holds the clustered point markers.
type MarkerLayer interface {
	Layer
	// SetMarkers clears the layer and repopulates it.
	SetMarkers([]Marker)
}

// Overlay is a named entry in the layer-toggle control.
type Overlay struct {
	Name  string
	Layer Layer
}

// Surface is the drawing capability consumed by the panel engine.
//
// All methods are called from the panel's single reconciliation
// goroutine; implementations need no locking on behalf of the engine.
type Surface interface {
	// Resize adjusts the drawing surface to the host viewport.
	Resize(width, height int)

	// AddPolygonLayer creates and attaches an empty boundary layer.
	AddPolygonLayer() PolygonLayer

	// AddMarkerLayer creates and attaches an empty point/cluster layer.
	AddMarkerLayer() MarkerLayer

	// AddRemoteLayer creates and attaches a remote feature layer for the
	// given service URL, filtered by a where-style predicate. Feature
	// fetching is the surface's problem and is never awaited.
	AddRemoteLayer(url, where string) Layer

	// RemoveLayer detaches a layer from the map.
	RemoveLayer(Layer)

	// SetOverlayControl tears down any existing layer-toggle control and
	// installs a new one with the given entries.
	SetOverlayControl(overlays []Overlay)

	// ClearOverlayControl removes the layer-toggle control entirely.
	ClearOverlayControl()

	// SendToBack pushes a layer below all other layers.
	SendToBack(Layer)

	// FitBounds recenters the view to cover b, expanded on every side by
	// padding as a fraction of the bound's size.
	FitBounds(b orb.Bound, padding float64)
}
