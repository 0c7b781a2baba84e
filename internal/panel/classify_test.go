package panel

import (
	"math"
	"testing"
)

func TestClassifyBoundaries(t *testing.T) {
	// Boundaries are inclusive on the lower class.
	cases := []struct {
		in   float64
		want Class
	}{
		{-5, ClassZero},
		{0, ClassZero},
		{0.1, 1},
		{50, 1},
		{51, 2},
		{100, 2},
		{120, 3},
		{500, 3},
		{1000, 4},
		{5000, 5},
		{10000, 6},
		{10001, 7},
		{math.MaxFloat64, 7},
	}
	for _, c := range cases {
		if got := Classify(c.in); got != c.want {
			t.Fatalf("Classify(%v)=%d, want %d", c.in, got, c.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Classify(-1)
	for v := float64(0); v <= 12000; v += 7 {
		c := Classify(v)
		if c < prev {
			t.Fatalf("classification not monotonic at %v: %d < %d", v, c, prev)
		}
		prev = c
	}
}

func TestPaletteColor(t *testing.T) {
	if got := ChoroplethPalette.Color(ClassZero); got != "" {
		t.Fatalf("zero class color=%q, want transparent", got)
	}
	if got := ChoroplethPalette.Color(7); got != "#b10026" {
		t.Fatalf("top class color=%q, want #b10026", got)
	}
	if got := ChoroplethPalette.Color(Class(99)); got != "" {
		t.Fatalf("out of range class color=%q, want empty", got)
	}
	if MarkerPalette.ColorFor(120) == ChoroplethPalette.ColorFor(120) {
		t.Fatal("palettes must differ while sharing the classification shape")
	}
}

func TestChoroplethStyle(t *testing.T) {
	if st := ChoroplethStyle(0); st.FillOpacity != 0 {
		t.Fatalf("zero total should be transparent, got %+v", st)
	}
	st := ChoroplethStyle(120)
	if st.FillColor != ChoroplethPalette.Color(3) {
		t.Fatalf("fill=%q, want class 3 color %q", st.FillColor, ChoroplethPalette.Color(3))
	}
	if st.FillOpacity == 0 {
		t.Fatal("non-zero total should be filled")
	}
}

func TestLegend(t *testing.T) {
	entries := Legend(ChoroplethPalette)
	if len(entries) != NumClasses-1 {
		t.Fatalf("len=%d, want %d", len(entries), NumClasses-1)
	}
	if entries[0].Label != "0 - 50" {
		t.Fatalf("first label=%q, want 0 - 50", entries[0].Label)
	}
	if entries[len(entries)-1].Label != "> 10000" {
		t.Fatalf("last label=%q, want > 10000", entries[len(entries)-1].Label)
	}
	for i, e := range entries {
		if e.Color == "" {
			t.Fatalf("entry %d has no color", i)
		}
	}
}
