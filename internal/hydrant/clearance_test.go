package hydrant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"curbside-service/internal/domain/curb"
)

func TestEvaluateClearanceBlocked(t *testing.T) {
	eval := EvaluateClearance(12.0, DefaultThresholdFt)

	assert.Equal(t, curb.RuleHydrantProximity, eval.RuleType)
	assert.True(t, eval.Blocked)
	assert.Equal(t, curb.SeverityHigh, eval.Severity)
	assert.Equal(t, 12.0, eval.DistanceFt)
	assert.Equal(t, "Too close to hydrant: 12.0 ft (minimum 15 ft).", eval.Reason)
}

func TestEvaluateClearanceOK(t *testing.T) {
	eval := EvaluateClearance(22.37, DefaultThresholdFt)

	assert.False(t, eval.Blocked)
	assert.Equal(t, curb.SeverityLow, eval.Severity)
	assert.Equal(t, 22.4, eval.DistanceFt)
	assert.Contains(t, eval.Reason, "clearance ok")
}

func TestEvaluateClearanceBoundary(t *testing.T) {
	// Exactly at the threshold is clear; strictly inside is not.
	assert.False(t, EvaluateClearance(15.0, DefaultThresholdFt).Blocked)
	assert.True(t, EvaluateClearance(14.99, DefaultThresholdFt).Blocked)
}
