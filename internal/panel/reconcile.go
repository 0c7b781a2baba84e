package panel

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-crash/internal/refdata"
	"github.com/joeblew999/plat-crash/internal/surface"
)

// fitPadding expands the camera fit bound by this fraction per side.
const fitPadding = 0.10

// regionVisual pairs a county's rendered boundary shape with its
// last-applied display state, so unchanged tooltips are never rebound.
// Visuals are created once from the reference dataset and only restyled
// afterwards, never recreated.
type regionVisual struct {
	fips        string
	name        string
	shape       surface.PolygonShape
	lastTooltip string
}

// Reconciler applies a new cycle's totals, rows and compiled predicate
// to the three managed layers with minimal visible disruption.
type Reconciler struct {
	surface    surface.Surface
	featureURL string

	choropleth surface.PolygonLayer
	markers    surface.MarkerLayer
	visuals    map[string]*regionVisual

	remote           surface.Layer
	remoteRegistered bool
}

// ApplyResult summarizes what a reconciliation pass did.
type ApplyResult struct {
	RegionsTouched int    `json:"regionsTouched"`
	Markers        int    `json:"markers"`
	Predicate      string `json:"predicate"`
}

// NewReconciler attaches the choropleth and marker layers and creates
// one boundary shape per county in the reference dataset.
func NewReconciler(s surface.Surface, regions *refdata.Set, featureURL string) *Reconciler {
	r := &Reconciler{
		surface:    s,
		featureURL: featureURL,
		choropleth: s.AddPolygonLayer(),
		markers:    s.AddMarkerLayer(),
		visuals:    make(map[string]*regionVisual, regions.Len()),
	}

	for _, county := range regions.All() {
		shape := r.choropleth.AddPolygon(county.FIPS, county.Geometry)
		shape.SetStyle(ChoroplethStyle(0))
		r.visuals[county.FIPS] = &regionVisual{
			fips:  county.FIPS,
			name:  county.Name,
			shape: shape,
		}
	}

	s.SendToBack(r.choropleth)
	return r
}

// Apply runs one full reconciliation pass.
func (r *Reconciler) Apply(view DataView, roles ColumnRoleMap, totals RegionTotal, predicate string) ApplyResult {
	metric := ResolveMetric(view.Metric)

	r.restyleChoropleth(totals, metric)
	markers := r.rebuildMarkers(view, roles)
	r.replaceRemote(predicate)

	// Boundaries stay below points and the remote layer no matter what
	// order anything was attached in.
	r.surface.SendToBack(r.choropleth)

	r.fitTouched(totals)

	return ApplyResult{
		RegionsTouched: len(totals),
		Markers:        markers,
		Predicate:      predicate,
	}
}

// restyleChoropleth recomputes every county's class. Fill styles are
// cheap and idempotent, so they are always reapplied; tooltips are only
// rebound when the text actually changed, to avoid flicker.
func (r *Reconciler) restyleChoropleth(totals RegionTotal, metric Metric) {
	for _, v := range r.visuals {
		total := totals[v.fips]
		v.shape.SetStyle(ChoroplethStyle(total))

		tooltip := fmt.Sprintf("%s County: %s %s", v.name, formatCount(total), metric.Label())
		if tooltip != v.lastTooltip {
			v.shape.SetTooltip(tooltip)
			v.lastTooltip = tooltip
		}
	}
}

// rebuildMarkers clears and repopulates the point layer from the
// current row batch. Rows carry no stable identity upstream, so there
// is nothing to diff against. Rows with non-numeric coordinates are
// skipped; nothing else is affected by them.
func (r *Reconciler) rebuildMarkers(view DataView, roles ColumnRoleMap) int {
	var markers []surface.Marker
	if roles.HasPoints() {
		for _, row := range view.Rows {
			lat, okLat := numericCell(row, roles.Latitude)
			lon, okLon := numericCell(row, roles.Longitude)
			if !okLat || !okLon {
				continue
			}

			weight := 1.0
			if roles.WeightMeasure != Unassigned {
				weight = ToNumber(cell(row, roles.WeightMeasure))
			}

			markers = append(markers, surface.Marker{
				Lat:   lat,
				Lon:   lon,
				Color: MarkerPalette.ColorFor(weight),
				Popup: formatCount(weight),
			})
		}
	}

	r.markers.SetMarkers(markers)
	return len(markers)
}

// replaceRemote swaps the remote feature layer for one parameterized by
// the fresh predicate. The detach, selector rebuild and attach happen
// back to back with no surface reads in between, so no frame observes
// the old layer gone with a stale selector. The selector control is
// rebuilt rather than appended to, which keeps exactly one entry per
// layer across the remote layer's lifetime.
func (r *Reconciler) replaceRemote(predicate string) {
	if r.remote != nil {
		r.surface.RemoveLayer(r.remote)
	}
	if r.remoteRegistered {
		r.surface.ClearOverlayControl()
	}

	r.remote = r.surface.AddRemoteLayer(r.featureURL, predicate)
	r.surface.SetOverlayControl([]surface.Overlay{
		{Name: "Crash locations", Layer: r.markers},
		{Name: "Interstate routes", Layer: r.remote},
	})
	r.remoteRegistered = true
}

// fitTouched recenters the view on the union of bounding boxes of all
// counties touched by the current row batch. Nothing touched, nothing
// moved.
func (r *Reconciler) fitTouched(totals RegionTotal) {
	var union orb.Bound
	touched := false

	for fips := range totals {
		v, ok := r.visuals[fips]
		if !ok {
			continue
		}
		b := v.shape.Bound()
		if !touched {
			union = b
			touched = true
		} else {
			union = union.Union(b)
		}
	}

	if touched {
		r.surface.FitBounds(union, fitPadding)
	}
}

func numericCell(row Row, i int) (float64, bool) {
	switch t := cell(row, i).(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// formatCount renders a total without trailing decimal noise.
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
