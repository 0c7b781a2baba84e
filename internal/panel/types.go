// Package panel implements the incremental map-state reconciliation
// engine for the NC crash dashboard: role binding over host-supplied
// tabular data, per-county aggregation, breakpoint classification, safe
// remote-query compilation, layer reconciliation and the debounce/retry
// update scheduler that drives it all.
package panel

// Column describes one column of the host-supplied dataset: a display
// name plus zero or more semantic role tags. The host may reorder or
// omit columns between updates, so positions mean nothing on their own.
type Column struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles,omitempty"`
}

// Row is one ordered tuple of cell values. Rows are read-only and carry
// no identity across update cycles.
type Row []any

// Filter is an externally supplied structured filter: a basic
// "column IN (values)" predicate descriptor from the host.
type Filter struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// Viewport is the host-supplied drawing area size in pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DataView is everything the host hands over on a single update event.
type DataView struct {
	Columns  []Column `json:"columns"`
	Rows     []Row    `json:"rows"`
	Filters  []Filter `json:"filters,omitempty"`
	Viewport Viewport `json:"viewport"`
	// Metric is the host's selectedMetric setting: "crashes" or
	// "persons". Unknown values fall back to crashes.
	Metric string `json:"metric,omitempty"`
}

// RegionTotal maps a normalized region key (zero-padded FIPS code) to
// the accumulated total of the active metric. Rebuilt from scratch on
// every cycle; totals never merge across cycles.
type RegionTotal map[string]float64
