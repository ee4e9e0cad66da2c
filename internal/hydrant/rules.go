package hydrant

import (
	"context"
	"fmt"
	"time"

	"curbside-service/internal/domain/curb"
)

// Freshness statuses for the hydrant resolution step.
const (
	FreshnessNone        = "none"
	FreshnessOverride    = "override"
	FreshnessLookupHit   = "lookup_hit"
	FreshnessLookupMiss  = "lookup_miss"
	FreshnessGPSFallback = "gps_fallback"
)

// minSearchRadiusM keeps hydrant lookups from using a tighter radius than
// hydrant spacing warrants.
const minSearchRadiusM = 75

// gpsUncertaintyThresholdM is the accuracy at which a missed lookup still
// earns a manual-check caution.
const gpsUncertaintyThresholdM = 10

// Freshness describes how the hydrant distance was resolved.
type Freshness struct {
	Status    string    `json:"status"`
	FetchedAt time.Time `json:"fetched_at"`
}

// BuildParams are the inputs to hydrant rule construction. A non-nil
// OverrideDistanceFt skips the dataset lookup entirely.
type BuildParams struct {
	Lat                float64
	Lon                float64
	RadiusM            int
	OverrideDistanceFt *float64
	GPSAccuracyM       float64
}

// BuildRules resolves hydrant proximity for a point into zero or one rules:
// a clearance rule when a distance is known (override or lookup), an
// uncertainty caution when the lookup missed but the GPS fix is too coarse
// to rule a hydrant out.
func BuildRules(ctx context.Context, p BuildParams, lookup LookupFunc) ([]curb.Rule, Freshness) {
	freshness := Freshness{Status: FreshnessNone, FetchedAt: time.Now().UTC()}

	var distanceFt *float64
	source := "Curbside Hydrant Proximity"

	if p.OverrideDistanceFt != nil {
		distanceFt = p.OverrideDistanceFt
		freshness.Status = FreshnessOverride
	} else if lookup != nil {
		radius := p.RadiusM
		if radius < minSearchRadiusM {
			radius = minSearchRadiusM
		}
		d, dataset, found := lookup(ctx, p.Lat, p.Lon, radius)
		if found {
			distanceFt = &d
			source = fmt.Sprintf("NYC Open Data Hydrants (%s)", dataset)
			freshness.Status = FreshnessLookupHit
		} else {
			freshness.Status = FreshnessLookupMiss
		}
	}

	if distanceFt != nil {
		eval := EvaluateClearance(*distanceFt, DefaultThresholdFt)
		rule := curb.Rule{
			Type:        eval.RuleType,
			Description: "Fire hydrant clearance rule",
			DistanceFt:  &eval.DistanceFt,
			ThresholdFt: &eval.ThresholdFt,
			Severity:    eval.Severity,
			Valid:       !eval.Blocked,
			Reason:      eval.Reason,
			Source:      source,
		}
		return []curb.Rule{rule}, freshness
	}

	if p.GPSAccuracyM >= gpsUncertaintyThresholdM {
		freshness.Status = FreshnessGPSFallback
		rule := curb.Rule{
			Type:        curb.RuleHydrantUncertain,
			Description: "Hydrant proximity uncertain due to GPS accuracy",
			Severity:    curb.SeverityMedium,
			Valid:       true,
			Reason:      fmt.Sprintf("Possible hydrant nearby (GPS accuracy +/-%.0fm). Check manually.", p.GPSAccuracyM),
			Source:      "Curbside GPS Fallback",
		}
		return []curb.Rule{rule}, freshness
	}

	return nil, freshness
}
