// Package violation prices invalid rules against a static fine-band catalog
// and aggregates the results.
package violation

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// FineBand is one catalog entry: the fine range and violation code for a
// rule type.
type FineBand struct {
	MinFineUSD    int     `mapstructure:"min_fine_usd" json:"min_fine_usd"`
	MaxFineUSD    int     `mapstructure:"max_fine_usd" json:"max_fine_usd"`
	ViolationCode string  `mapstructure:"violation_code" json:"violation_code"`
	Confidence    float64 `mapstructure:"confidence" json:"confidence"`
	Note          string  `mapstructure:"note" json:"note"`
	FineSource    string  `mapstructure:"fine_source" json:"fine_source,omitempty"`
	LastUpdated   string  `mapstructure:"last_updated" json:"last_updated,omitempty"`
}

// Catalog maps rule types to fine bands. Band-level source and last-updated
// values override the catalog-level ones.
type Catalog struct {
	Source      string              `mapstructure:"source"`
	LastUpdated string              `mapstructure:"last_updated"`
	Bands       map[string]FineBand `mapstructure:"rules"`
}

const (
	builtinSource      = "NYC DOT published fine schedule"
	builtinLastUpdated = "2025-07-01"
)

// Builtin returns the compiled-in NYC band set used when no catalog file is
// configured or the configured one cannot be read.
func Builtin() *Catalog {
	return &Catalog{
		Source:      builtinSource,
		LastUpdated: builtinLastUpdated,
		Bands: map[string]FineBand{
			"hydrant_proximity":     {115, 115, "NYC-HYDRANT-15FT", 0.95, "NYC hydrant clearance violation.", "", ""},
			"no_standing":           {95, 115, "NYC-NO-STANDING", 0.8, "No standing violation estimate by zone/time.", "", ""},
			"no parking":            {65, 115, "NYC-NO-PARKING", 0.8, "No parking violation estimate by zone/time.", "", ""},
			"street_cleaning":       {65, 65, "NYC-ASP", 0.9, "Alternate-side parking estimate.", "", ""},
			"truck_loading_only":    {95, 115, "NYC-TRUCK-LOADING", 0.75, "Truck/loading-only curb misuse estimate.", "", ""},
			"loading_only":          {95, 115, "NYC-LOADING-ONLY", 0.75, "Loading-only curb misuse estimate.", "", ""},
			"taxi_only":             {95, 115, "NYC-TAXI-ONLY", 0.7, "Taxi stand curb misuse estimate.", "", ""},
			"fhv_only":              {95, 115, "NYC-FHV-ONLY", 0.7, "FHV/TLC curb misuse estimate.", "", ""},
			"fire_zone":             {115, 150, "NYC-FIRE-ZONE", 0.7, "Emergency/fire access obstruction estimate.", "", ""},
			"official_vehicle_only": {95, 150, "NYC-OFFICIAL-ONLY", 0.65, "Official vehicle-only zone misuse estimate.", "", ""},
		},
	}
}

// Load reads a fine-band catalog file. The file carries
// {source, last_updated, rules: {type: band}}.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read fine catalog: %w", err)
	}

	var catalog Catalog
	if err := v.Unmarshal(&catalog); err != nil {
		return nil, fmt.Errorf("parse fine catalog: %w", err)
	}
	if len(catalog.Bands) == 0 {
		return nil, fmt.Errorf("fine catalog %s has no rule bands", path)
	}
	return &catalog, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Init establishes the process-wide catalog exactly once: the file at path
// if it parses, the builtin band set otherwise. Later calls return the
// already-initialized catalog regardless of arguments.
func Init(path string) *Catalog {
	defaultOnce.Do(func() {
		if path != "" {
			if catalog, err := Load(path); err == nil {
				defaultCatalog = catalog
				return
			}
		}
		defaultCatalog = Builtin()
	})
	return defaultCatalog
}

// Default returns the process-wide catalog, initializing it to the builtin
// band set if Init was never called.
func Default() *Catalog {
	return Init("")
}
