package panel

import "testing"

func TestResolveMetric(t *testing.T) {
	cases := []struct {
		in   string
		want Metric
	}{
		{"crashes", MetricCrashes},
		{"persons", MetricPersons},
		{"", MetricCrashes},
		{"bogus", MetricCrashes},
	}
	for _, c := range cases {
		if got := ResolveMetric(c.in); got != c.want {
			t.Fatalf("ResolveMetric(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestMetricLabel(t *testing.T) {
	if MetricCrashes.Label() != "crashes" {
		t.Fatalf("label=%q, want crashes", MetricCrashes.Label())
	}
	if MetricPersons.Label() != "persons involved" {
		t.Fatalf("label=%q, want persons involved", MetricPersons.Label())
	}
}
