package panel

import "github.com/joeblew999/plat-crash/internal/surface"

// Class is a discrete visual tier. ClassZero renders transparent;
// higher classes render progressively hotter colors.
type Class int

// ClassZero is the tier for totals at or below the first breakpoint.
const ClassZero Class = 0

// Breakpoints are the fixed ascending classification thresholds.
// A value maps to the first class whose breakpoint it does not exceed,
// so boundaries are inclusive on the lower class; values beyond the
// last breakpoint map to the top class.
var Breakpoints = [7]float64{0, 50, 100, 500, 1000, 5000, 10000}

// NumClasses is the number of tiers, including the transparent one.
const NumClasses = len(Breakpoints) + 1

// Classify maps a total to its class. Total over all real inputs.
func Classify(value float64) Class {
	for i, b := range Breakpoints {
		if value <= b {
			return Class(i)
		}
	}
	return Class(len(Breakpoints))
}

// Palette is a color ramp with one entry per class.
type Palette [NumClasses]string

// ChoroplethPalette colors the county fill tiers. The zero tier is
// empty so untouched counties stay transparent.
var ChoroplethPalette = Palette{
	"", "#ffffb2", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#b10026",
}

// MarkerPalette colors clustered point markers by cluster size.
var MarkerPalette = Palette{
	"", "#bfd3e6", "#9ebcda", "#8c96c6", "#8c6bb1", "#88419d", "#810f7c", "#4d004b",
}

// Color returns the palette entry for a class.
func (p Palette) Color(c Class) string {
	if c < 0 || int(c) >= NumClasses {
		return ""
	}
	return p[c]
}

// ColorFor classifies a value and returns its palette color in one step.
func (p Palette) ColorFor(value float64) string {
	return p.Color(Classify(value))
}

// ChoroplethStyle builds the fill style for a county at the given
// total. The zero class is fully transparent.
func ChoroplethStyle(total float64) surface.Style {
	class := Classify(total)
	if class == ClassZero {
		return surface.Style{Color: "#444444", Weight: 1, Opacity: 0.6, FillOpacity: 0}
	}
	return surface.Style{
		FillColor:   ChoroplethPalette.Color(class),
		FillOpacity: 0.65,
		Color:       "#444444",
		Weight:      1,
		Opacity:     0.8,
	}
}

// LegendEntry is one row of the derived legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend derives legend entries from a palette, skipping the
// transparent tier.
func Legend(p Palette) []LegendEntry {
	entries := make([]LegendEntry, 0, NumClasses-1)
	for i := 1; i < NumClasses; i++ {
		var label string
		if i < len(Breakpoints) {
			label = formatRange(Breakpoints[i-1], Breakpoints[i])
		} else {
			label = formatOpenRange(Breakpoints[len(Breakpoints)-1])
		}
		entries = append(entries, LegendEntry{Label: label, Color: p[i]})
	}
	return entries
}

func formatRange(lo, hi float64) string {
	return formatCount(lo) + " - " + formatCount(hi)
}

func formatOpenRange(lo float64) string {
	return "> " + formatCount(lo)
}
