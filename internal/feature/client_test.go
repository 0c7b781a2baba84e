package feature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestQuerySendsPredicateAndParsesFeatures(t *testing.T) {
	var gotWhere, gotFormat string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotWhere = r.URL.Query().Get("where")
		gotFormat = r.URL.Query().Get("f")

		fc := geojson.NewFeatureCollection()
		f := geojson.NewFeature(orb.LineString{{-79.0, 35.9}, {-78.9, 36.0}})
		f.Properties["Route"] = "I-40"
		fc.Append(f)

		data, _ := fc.MarshalJSON()
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(data)
	}))
	defer srv.Close()

	fc, err := NewClient(srv.URL).Query(context.Background(), "Route IN ('I-40')")
	if err != nil {
		t.Fatal(err)
	}

	if gotWhere != "Route IN ('I-40')" {
		t.Fatalf("where=%q, want the compiled predicate", gotWhere)
	}
	if gotFormat != "geojson" {
		t.Fatalf("f=%q, want geojson", gotFormat)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features=%d, want 1", len(fc.Features))
	}
	if fc.Features[0].Properties["Route"] != "I-40" {
		t.Fatalf("properties=%v, want Route=I-40", fc.Features[0].Properties)
	}
}

func TestQueryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Query(context.Background(), "1=0"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestQueryMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not geojson"))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Query(context.Background(), "1=0"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
