// Package hydrant resolves fire-hydrant proximity into parking rules: a hard
// clearance rule when a distance is known, an uncertainty caution when GPS
// accuracy leaves the question open.
package hydrant

import (
	"fmt"
	"math"

	"curbside-service/internal/domain/curb"
)

// DefaultThresholdFt is the NYC minimum clearance from a hydrant.
const DefaultThresholdFt = 15.0

// ClearanceEvaluation is the outcome of checking one measured distance
// against the clearance threshold.
type ClearanceEvaluation struct {
	RuleType    curb.RuleType
	DistanceFt  float64
	ThresholdFt float64
	Blocked     bool
	Severity    curb.Severity
	Reason      string
}

// EvaluateClearance checks a hydrant distance against the threshold. The
// distance is rounded to a tenth of a foot for presentation.
func EvaluateClearance(distanceFt, thresholdFt float64) ClearanceEvaluation {
	blocked := distanceFt < thresholdFt

	reason := fmt.Sprintf("Hydrant clearance ok: %.1f ft from nearest hydrant.", distanceFt)
	severity := curb.SeverityLow
	if blocked {
		reason = fmt.Sprintf("Too close to hydrant: %.1f ft (minimum %.0f ft).", distanceFt, thresholdFt)
		severity = curb.SeverityHigh
	}

	return ClearanceEvaluation{
		RuleType:    curb.RuleHydrantProximity,
		DistanceFt:  roundTenth(distanceFt),
		ThresholdFt: thresholdFt,
		Blocked:     blocked,
		Severity:    severity,
		Reason:      reason,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
