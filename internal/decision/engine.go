// Package decision reduces a classified rule list to a single parking
// verdict.
package decision

import (
	"strings"

	"curbside-service/internal/domain/curb"
)

const (
	actionBlocked = "Do not park here. Move to another spot."
	actionCaution = "Parking may be allowed now, but review restrictions."
	actionSafe    = "Proceed to park, then verify on-street signage."

	reasonSafe = "No active restrictions detected in current rule set."
)

// Decide runs one pass over the rules, collecting blocked and caution
// reasons in list order and tracking the highest matched risk score. Each
// rule matches at most one predicate; the predicate order is fixed and is
// part of the contract. Blocked always outranks caution regardless of the
// numeric score.
func Decide(rules []curb.Rule) curb.Decision {
	var blockedReasons, cautionReasons []string
	riskScore := 0

	raise := func(floor int) {
		if floor > riskScore {
			riskScore = floor
		}
	}

	for _, rule := range rules {
		switch {
		case rule.Type == curb.RuleStreetCleaning && rule.IsActiveNow():
			blockedReasons = append(blockedReasons, reasonOr(rule, "Street cleaning active now"))
			raise(95)

		case (rule.Type == curb.RuleLoadingOnly || rule.Type == curb.RuleTruckLoadingOnly) && !rule.Valid:
			blockedReasons = append(blockedReasons, reasonOr(rule, rule.Description))
			raise(92)

		case (rule.Type == curb.RuleTaxiOnly || rule.Type == curb.RuleFHVOnly) && !rule.Valid:
			blockedReasons = append(blockedReasons, reasonOr(rule, rule.Description))
			raise(93)

		case isRestrictedZone(rule.Type) && !rule.Valid:
			blockedReasons = append(blockedReasons, reasonOr(rule, rule.Description))
			if rule.Type == curb.RuleHydrantProximity {
				raise(97)
			} else {
				raise(94)
			}

		case rule.Type == curb.RuleHydrantUncertain:
			cautionReasons = append(cautionReasons, reasonOr(rule, "Possible hydrant nearby. Check manually."))
			raise(55)

		// "no parking" never comes out of the classifier; it is reachable
		// only as a raw passthrough order_type, but the check is kept for
		// parity with the fine catalog.
		case (rule.Type == curb.RuleNoStanding || rule.Type == curb.RuleNoParking) && !rule.Valid:
			blockedReasons = append(blockedReasons, rule.Description)
			raise(90)

		case (rule.Type == curb.RuleStreetCleaning || rule.Type == curb.RuleNoStanding) && !rule.IsActiveNow() && rule.TimeLeft != nil:
			cautionReasons = append(cautionReasons, reasonOr(rule, upcomingText(rule)))
			raise(60)

		case rule.Type == curb.RuleMetered && rule.Valid:
			cautionReasons = append(cautionReasons, "Meter payment required")
			raise(30)
		}
	}

	if len(blockedReasons) > 0 {
		if riskScore == 0 {
			riskScore = 90
		}
		return curb.Decision{
			Status:            curb.StatusBlocked,
			RiskScore:         riskScore,
			PrimaryReason:     blockedReasons[0],
			RecommendedAction: actionBlocked,
		}
	}

	if len(cautionReasons) > 0 {
		if riskScore == 0 {
			riskScore = 50
		}
		return curb.Decision{
			Status:            curb.StatusCaution,
			RiskScore:         riskScore,
			PrimaryReason:     cautionReasons[0],
			RecommendedAction: actionCaution,
		}
	}

	return curb.Decision{
		Status:            curb.StatusSafe,
		RiskScore:         10,
		PrimaryReason:     reasonSafe,
		RecommendedAction: actionSafe,
	}
}

func isRestrictedZone(t curb.RuleType) bool {
	switch t {
	case curb.RuleFireZone, curb.RuleEmergencyAccess, curb.RuleOfficialVehicleOnly, curb.RuleHydrantProximity:
		return true
	}
	return false
}

func reasonOr(rule curb.Rule, fallback string) string {
	if rule.Reason != "" {
		return rule.Reason
	}
	return fallback
}

func upcomingText(rule curb.Rule) string {
	label := strings.ReplaceAll(string(rule.Type), "_", " ")
	return label + " starts in " + *rule.TimeLeft
}
