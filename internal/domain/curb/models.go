package curb

import (
	"time"
)

// RuleType discriminates the closed set of regulation categories a raw record
// can classify into. Raw passthrough records keep their source order_type as
// the type value, so comparisons should go through the constants below rather
// than assuming the set is exhaustive.
type RuleType string

const (
	RuleStreetCleaning      RuleType = "street_cleaning"
	RuleNoStanding          RuleType = "no_standing"
	RuleNoParking           RuleType = "no parking"
	RuleMetered             RuleType = "metered"
	RuleLoadingOnly         RuleType = "loading_only"
	RuleTruckLoadingOnly    RuleType = "truck_loading_only"
	RuleTaxiOnly            RuleType = "taxi_only"
	RuleFHVOnly             RuleType = "fhv_only"
	RuleFireZone            RuleType = "fire_zone"
	RuleEmergencyAccess     RuleType = "emergency_access"
	RuleOfficialVehicleOnly RuleType = "official_vehicle_only"
	RuleHydrantProximity    RuleType = "hydrant_proximity"
	RuleHydrantUncertain    RuleType = "hydrant_uncertain"
)

// Severity is an advisory ordinal hint; the decision engine computes its own
// numeric risk independently.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type VehicleType string

const (
	VehiclePassenger VehicleType = "passenger"
	VehicleTruck     VehicleType = "truck"
	VehicleTaxi      VehicleType = "taxi"
	VehicleFHV       VehicleType = "fhv"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehiclePassenger, VehicleTruck, VehicleTaxi, VehicleFHV:
		return true
	}
	return false
}

type AgencyAffiliation string

const (
	AgencyNone   AgencyAffiliation = "none"
	AgencyPolice AgencyAffiliation = "police"
	AgencyFire   AgencyAffiliation = "fire"
	AgencyCity   AgencyAffiliation = "city"
	AgencySchool AgencyAffiliation = "school"
)

func (a AgencyAffiliation) Valid() bool {
	switch a {
	case AgencyNone, AgencyPolice, AgencyFire, AgencyCity, AgencySchool:
		return true
	}
	return false
}

// VehicleProfile describes the vehicle asking for a parking decision.
// Callers must pass in-enum values; the core does not re-validate them.
type VehicleProfile struct {
	Type            VehicleType       `json:"vehicle_type"`
	CommercialPlate bool              `json:"commercial_plate"`
	Agency          AgencyAffiliation `json:"agency_affiliation"`
}

// Rule is one classified regulation or condition at the queried location.
// Most fields are populated only for particular types, hence the pointers.
type Rule struct {
	Type                 RuleType           `json:"type"`
	Description          string             `json:"description"`
	Valid                bool               `json:"valid"`
	ActiveNow            *bool              `json:"active_now,omitempty"`
	Severity             Severity           `json:"severity,omitempty"`
	Reason               string             `json:"reason,omitempty"`
	Fine                 *int               `json:"fine,omitempty"`
	NextCleaning         *time.Time         `json:"next_cleaning,omitempty"`
	Window               *string            `json:"window,omitempty"`
	TimeLeft             *string            `json:"time_left,omitempty"`
	Rate                 *string            `json:"rate,omitempty"`
	MaxTime              *string            `json:"max_time,omitempty"`
	Hours                *string            `json:"hours,omitempty"`
	DistanceFt           *float64           `json:"distance_ft,omitempty"`
	ThresholdFt          *float64           `json:"threshold_ft,omitempty"`
	EligibleVehicleTypes []string           `json:"eligible_vehicle_types,omitempty"`
	ViolationEstimate    *ViolationEstimate `json:"violation_estimate,omitempty"`
	Source               string             `json:"source"`
}

// IsActiveNow treats an unset active flag as inactive, matching how
// non-time-bound rules are handled in decision predicates.
func (r Rule) IsActiveNow() bool {
	return r.ActiveNow != nil && *r.ActiveNow
}

// Decision is the single aggregated verdict for a rule set.
type Decision struct {
	Status            string `json:"status"` // safe | caution | blocked
	RiskScore         int    `json:"risk_score"`
	PrimaryReason     string `json:"primary_reason"`
	RecommendedAction string `json:"recommended_action"`
}

const (
	StatusSafe    = "safe"
	StatusCaution = "caution"
	StatusBlocked = "blocked"
)

// ViolationEstimate prices one blocked/invalid rule against the fine catalog.
type ViolationEstimate struct {
	ViolationCode string  `json:"violation_code"`
	MinFineUSD    int     `json:"min_fine_usd"`
	MaxFineUSD    int     `json:"max_fine_usd"`
	Confidence    float64 `json:"confidence"`
	Note          string  `json:"note,omitempty"`
	FineSource    string  `json:"fine_source,omitempty"`
	LastUpdated   string  `json:"last_updated,omitempty"`
}

// ViolationSummary aggregates the attached estimates of a rule list.
type ViolationSummary struct {
	EstimatedTotalMinUSD int `json:"estimated_total_min_usd"`
	EstimatedTotalMaxUSD int `json:"estimated_total_max_usd"`
	HighestSingleMaxUSD  int `json:"highest_single_max_usd"`
	HighRiskViolations   int `json:"high_risk_violations"`
}
