// Package opendata fetches regulation and meter rows from the NYC Socrata
// open-data API, with a TTL cache in front to avoid refetching hot cells.
package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"curbside-service/internal/cache"
	"curbside-service/internal/domain/curb"
	"curbside-service/internal/geo"
	"curbside-service/internal/metrics"
)

const (
	// Socrata dataset ids on data.cityofnewyork.us.
	RegulationsDataset = "nfid-uabd"
	MetersDataset      = "693u-uax6"

	DefaultBaseURL = "https://data.cityofnewyork.us/resource"

	regulationsLimit = 50
	metersLimit      = 10
)

type Client struct {
	httpClient *http.Client
	cache      *cache.TTL
	cacheTTL   time.Duration
	baseURL    string
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout, cacheTTL time.Duration, store *cache.TTL, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cache:      store,
		cacheTTL:   cacheTTL,
		baseURL:    baseURL,
		log:        log,
	}
}

// Regulations returns curb regulation rows within radiusM meters of a point.
func (c *Client) Regulations(ctx context.Context, lat, lon float64, radiusM int) []curb.RawRecord {
	where := fmt.Sprintf("within_circle(the_geom, %f, %f, %d)", lat, lon, radiusM)
	return c.query(ctx, RegulationsDataset, where, regulationsLimit)
}

// Meters returns parking meter rows in a bounding box around a point. The
// meter table has no geometry column, so the query goes by lat/long range.
func (c *Client) Meters(ctx context.Context, lat, lon float64, radiusM int) []curb.RawRecord {
	box := geo.BoxAround(lat, lon, radiusM)
	where := fmt.Sprintf("lat between %f and %f and long between %f and %f",
		box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	return c.query(ctx, MetersDataset, where, metersLimit)
}

// Query runs an arbitrary SoQL where clause against a dataset. Used by the
// hydrant lookup, whose candidate column names vary per dataset.
func (c *Client) Query(ctx context.Context, dataset, where string, limit int) []curb.RawRecord {
	return c.query(ctx, dataset, where, limit)
}

func (c *Client) query(ctx context.Context, dataset, where string, limit int) []curb.RawRecord {
	params := url.Values{}
	params.Set("$where", where)
	params.Set("$limit", fmt.Sprintf("%d", limit))
	fullURL := fmt.Sprintf("%s/%s.json?%s", c.baseURL, dataset, params.Encode())

	if c.cache != nil {
		if v, ok := c.cache.Get(fullURL); ok {
			metrics.OpenDataFetchesTotal.WithLabelValues(dataset, "cache_hit").Inc()
			if rows, ok := v.([]curb.RawRecord); ok {
				return rows
			}
		}
	}

	rows := c.fetchJSON(ctx, dataset, fullURL)

	if c.cache != nil {
		c.cache.Set(fullURL, rows, c.cacheTTL)
	}
	return rows
}

// fetchJSON degrades to an empty row set on any transport, status, or decode
// problem; upstream data being unavailable must not fail the request.
func (c *Client) fetchJSON(ctx context.Context, dataset, fullURL string) []curb.RawRecord {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		metrics.OpenDataFetchesTotal.WithLabelValues(dataset, "error").Inc()
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("dataset", dataset).Msg("open-data fetch failed")
		metrics.OpenDataFetchesTotal.WithLabelValues(dataset, "error").Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Str("dataset", dataset).Msg("open-data fetch non-200")
		metrics.OpenDataFetchesTotal.WithLabelValues(dataset, "error").Inc()
		return nil
	}

	var rows []curb.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		// Non-list payloads (error objects, HTML) are treated as empty.
		c.log.Debug().Err(err).Str("dataset", dataset).Msg("open-data payload not a row list")
		metrics.OpenDataFetchesTotal.WithLabelValues(dataset, "error").Inc()
		return nil
	}

	metrics.OpenDataFetchesTotal.WithLabelValues(dataset, "fetched").Inc()
	return rows
}
