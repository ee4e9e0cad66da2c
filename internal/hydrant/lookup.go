package hydrant

import (
	"context"
	"fmt"
	"strconv"

	"curbside-service/internal/domain/curb"
	"curbside-service/internal/geo"
	"curbside-service/internal/opendata"
)

// Two hydrant tables exist on NYC open data with different schemas; the
// first one that yields rows wins to limit latency.
var hydrantDatasets = []string{"5bgh-vtsn", "6pui-xhxz"}

// Common flat column names in Socrata tables.
var (
	latKeys = []string{"latitude", "lat", "y", "y_coord", "ycoord"}
	lonKeys = []string{"longitude", "long", "lon", "x", "x_coord", "xcoord"}
)

// LookupFunc finds the nearest hydrant to a point. It reports the distance
// in feet, the dataset that provided it, and whether anything was found.
type LookupFunc func(ctx context.Context, lat, lon float64, searchRadiusM int) (float64, string, bool)

// Locator looks hydrants up through the open-data client.
type Locator struct {
	client *opendata.Client
}

func NewLocator(client *opendata.Client) *Locator {
	return &Locator{client: client}
}

// NearestDistanceFt scans the hydrant datasets for the closest hydrant
// within searchRadiusM of the point.
func (l *Locator) NearestDistanceFt(ctx context.Context, lat, lon float64, searchRadiusM int) (float64, string, bool) {
	bestDistanceM := -1.0
	bestDataset := ""

	for _, dataset := range hydrantDatasets {
		for _, row := range l.candidates(ctx, dataset, lat, lon, searchRadiusM) {
			rowLat, rowLon, ok := extractLatLon(row)
			if !ok {
				continue
			}
			d := geo.DistanceMeters(lat, lon, rowLat, rowLon)
			if bestDistanceM < 0 || d < bestDistanceM {
				bestDistanceM = d
				bestDataset = dataset
			}
		}
		if bestDistanceM >= 0 {
			break
		}
	}

	if bestDistanceM < 0 {
		return 0, "", false
	}
	return roundTenth(geo.MetersToFeet(bestDistanceM)), bestDataset, true
}

// candidates tries a geospatial query first (works on views with the_geom),
// then falls back to bbox range queries over the usual column-name variants.
func (l *Locator) candidates(ctx context.Context, dataset string, lat, lon float64, radiusM int) []curb.RawRecord {
	where := fmt.Sprintf("within_circle(the_geom, %f, %f, %d)", lat, lon, radiusM)
	if rows := l.client.Query(ctx, dataset, where, 50); len(rows) > 0 {
		return rows
	}

	box := geo.BoxAround(lat, lon, radiusM)
	for _, latField := range []string{"latitude", "lat", "y"} {
		for _, lonField := range []string{"longitude", "long", "lon", "x"} {
			where := fmt.Sprintf("%s between %f and %f and %s between %f and %f",
				latField, box.MinLat, box.MaxLat, lonField, box.MinLon, box.MaxLon)
			if rows := l.client.Query(ctx, dataset, where, 200); len(rows) > 0 {
				return rows
			}
		}
	}
	return nil
}

func extractLatLon(row curb.RawRecord) (float64, float64, bool) {
	for _, latKey := range latKeys {
		for _, lonKey := range lonKeys {
			lat, okLat := row.Float(latKey)
			lon, okLon := row.Float(lonKey)
			if okLat && okLon {
				return lat, lon, true
			}
		}
	}

	// Socrata "location" object patterns.
	for _, key := range []string{"location", "point", "the_geom", "geom", "geometry"} {
		obj, ok := row.Object(key)
		if !ok {
			continue
		}
		if lat, okLat := obj.Float("latitude"); okLat {
			if lon, okLon := obj.Float("longitude"); okLon {
				return lat, lon, true
			}
		}
		if coords, ok := obj["coordinates"].([]any); ok && len(coords) >= 2 {
			lon, okLon := coerceFloat(coords[0])
			lat, okLat := coerceFloat(coords[1])
			if okLat && okLon {
				return lat, lon, true
			}
		}
	}

	return 0, 0, false
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
