package panel

// Metric is the measure the panel aggregates and displays.
type Metric string

const (
	MetricCrashes Metric = "crashes"
	MetricPersons Metric = "persons"
)

// ResolveMetric picks the active metric from the host's selectedMetric
// setting. Anything unrecognized falls back to crashes.
func ResolveMetric(selected string) Metric {
	switch Metric(selected) {
	case MetricCrashes, MetricPersons:
		return Metric(selected)
	default:
		return MetricCrashes
	}
}

// Label returns the tooltip label for the metric.
func (m Metric) Label() string {
	if m == MetricPersons {
		return "persons involved"
	}
	return "crashes"
}
