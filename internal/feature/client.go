// Package feature is an HTTP client for the remote feature service: a
// layer endpoint addressed by URL and filtered with a where-style
// predicate, returning GeoJSON features whose attributes feed tooltips.
package feature

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Client queries a remote feature layer.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the layer at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Query fetches the features matching the where predicate. The
// predicate must already be compiled and allow-listed; this client
// never builds predicates from raw input.
func (c *Client) Query(ctx context.Context, where string) (*geojson.FeatureCollection, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("feature service url: %w", err)
	}

	q := u.Query()
	q.Set("where", where)
	q.Set("outFields", "*")
	q.Set("f", "geojson")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying feature service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feature service returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("reading feature response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("parsing feature response: %w", err)
	}
	return fc, nil
}
