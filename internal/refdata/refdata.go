// Package refdata loads the static reference dataset: North Carolina
// county boundary geometry keyed by FIPS code, plus the FIPS-to-name
// lookup. Loaded once at startup and read-only afterwards.
package refdata

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// County is one region from the reference dataset.
type County struct {
	FIPS     string
	Name     string
	Geometry orb.Geometry
}

// Set is the immutable collection of county boundaries.
type Set struct {
	counties map[string]County
	order    []string
}

// Load reads a GeoJSON FeatureCollection of county boundaries. Each
// feature must carry its FIPS code in a "FIPS" or "GEOID" property;
// features without one are skipped. Display names come from the
// embedded FIPS table, falling back to the feature's "NAME" property.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading boundaries: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing boundaries: %w", err)
	}

	return FromFeatures(fc)
}

// FromFeatures builds a Set from an already parsed FeatureCollection.
func FromFeatures(fc *geojson.FeatureCollection) (*Set, error) {
	s := &Set{counties: make(map[string]County, len(fc.Features))}

	for _, f := range fc.Features {
		fips := featureFIPS(f)
		if fips == "" {
			continue
		}
		if _, dup := s.counties[fips]; dup {
			continue
		}

		name := CountyName(fips)
		if name == "" {
			if v, ok := f.Properties["NAME"].(string); ok {
				name = v
			}
		}

		s.counties[fips] = County{
			FIPS:     fips,
			Name:     name,
			Geometry: f.Geometry,
		}
		s.order = append(s.order, fips)
	}

	if len(s.counties) == 0 {
		return nil, fmt.Errorf("no features with a FIPS or GEOID property")
	}

	sort.Strings(s.order)
	return s, nil
}

// Get returns the county for a FIPS code.
func (s *Set) Get(fips string) (County, bool) {
	c, ok := s.counties[fips]
	return c, ok
}

// Len returns the number of counties.
func (s *Set) Len() int {
	return len(s.counties)
}

// All returns the counties in FIPS order.
func (s *Set) All() []County {
	result := make([]County, 0, len(s.order))
	for _, fips := range s.order {
		result = append(result, s.counties[fips])
	}
	return result
}

func featureFIPS(f *geojson.Feature) string {
	for _, key := range []string{"FIPS", "GEOID"} {
		if v, ok := f.Properties[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
