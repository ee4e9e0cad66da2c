// Package classify maps loosely-structured curb regulation records into
// typed, vehicle-aware rules.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"curbside-service/internal/domain/curb"
	"curbside-service/internal/schedule"
)

const (
	sourceSweeping = "NYC DOT Sweeping Schedule"
	sourceSign     = "NYC DOT Sign"
)

// recordContext carries one record through the classification chain.
type recordContext struct {
	rec         curb.RawRecord
	now         time.Time
	vehicle     curb.VehicleProfile
	orderType   string
	description string
	descLower   string
}

// A step pairs a trigger predicate with a rule builder. Builders may return
// nil to decline the record, in which case the chain keeps going. The order
// of steps is behavior: overlapping keyword sets resolve to whichever step
// is tested first, so do not reorder.
type step struct {
	match func(*recordContext) bool
	build func(*recordContext) *curb.Rule
}

var chain = []step{
	{matchStreetCleaning, buildStreetCleaning},
	{matchNoStanding, buildNoStanding},
	{matchLoadingZone, buildLoadingZone},
	{matchTaxiOrFHV, buildTaxiOrFHV},
	{matchFireZone, buildFireZone},
	{matchOfficialZone, buildOfficialZone},
}

// Classify turns one raw regulation record into exactly one rule. Records
// that trigger no category become a passthrough rule carrying the raw
// order_type.
func Classify(rec curb.RawRecord, now time.Time, vehicle curb.VehicleProfile) curb.Rule {
	description := rec.String("sign_desc", rec.String("description", "No description"))
	ctx := &recordContext{
		rec:         rec,
		now:         now,
		vehicle:     vehicle,
		orderType:   strings.ToLower(rec.String("order_type", "unknown")),
		description: description,
		descLower:   strings.ToLower(description),
	}

	for _, s := range chain {
		if !s.match(ctx) {
			continue
		}
		if rule := s.build(ctx); rule != nil {
			return *rule
		}
	}
	return buildPassthrough(ctx)
}

func matchStreetCleaning(ctx *recordContext) bool {
	return strings.Contains(ctx.orderType, "clean") || strings.Contains(ctx.descLower, "alternate side")
}

func buildStreetCleaning(ctx *recordContext) *curb.Rule {
	startTime := ctx.rec.String("time_from", "06:00")
	endTime := ctx.rec.String("time_to", "09:00")
	daysSpec := ctx.rec.String("days", "Mon-Fri")

	eval := schedule.Evaluate(ctx.now, daysSpec, startTime, endTime)
	timeLeft := FormatDuration(eval.Countdown)

	reason := fmt.Sprintf("Street cleaning starts in %s", timeLeft)
	severity := curb.SeverityMedium
	if eval.ActiveNow {
		reason = fmt.Sprintf("Street cleaning active now (ends in %s)", timeLeft)
		severity = curb.SeverityHigh
	}

	return &curb.Rule{
		Type:         curb.RuleStreetCleaning,
		Description:  ctx.description,
		NextCleaning: &eval.NextStart,
		Window:       strptr(fmt.Sprintf("%s - %s", startTime, endTime)),
		TimeLeft:     &timeLeft,
		ActiveNow:    &eval.ActiveNow,
		Severity:     severity,
		Valid:        !eval.ActiveNow,
		Reason:       reason,
		Source:       sourceSweeping,
	}
}

func matchNoStanding(ctx *recordContext) bool {
	return ctx.orderType == "no_standing" || strings.Contains(ctx.descLower, "no standing")
}

func buildNoStanding(ctx *recordContext) *curb.Rule {
	startTime := ctx.rec.String("time_from", "")
	endTime := ctx.rec.String("time_to", "")
	daysSpec := ctx.rec.String("days", "")

	if startTime == "" || endTime == "" {
		parsedStart, parsedEnd := extractTimeWindow(ctx.description)
		if startTime == "" {
			startTime = parsedStart
		}
		if endTime == "" {
			endTime = parsedEnd
		}
	}
	if daysSpec == "" {
		daysSpec = extractDaySpec(ctx.description)
		if daysSpec == "" {
			daysSpec = "Mon-Fri"
		}
	}

	// Without both window ends this is not a usable time-bound rule; let
	// the rest of the chain have a look at the record.
	if startTime == "" || endTime == "" {
		return nil
	}

	eval := schedule.Evaluate(ctx.now, daysSpec, startTime, endTime)
	timeLeft := FormatDuration(eval.Countdown)

	reason := fmt.Sprintf("No standing starts in %s", timeLeft)
	severity := curb.SeverityMedium
	if eval.ActiveNow {
		reason = fmt.Sprintf("No standing active now (ends in %s)", timeLeft)
		severity = curb.SeverityHigh
	}

	return &curb.Rule{
		Type:        curb.RuleNoStanding,
		Description: ctx.description,
		Window:      strptr(fmt.Sprintf("%s - %s", startTime, endTime)),
		TimeLeft:    &timeLeft,
		ActiveNow:   &eval.ActiveNow,
		Severity:    severity,
		Valid:       !eval.ActiveNow,
		Reason:      reason,
		Source:      sourceSign,
	}
}

func matchLoadingZone(ctx *recordContext) bool {
	return containsAny(ctx.descLower, "loading", "truck loading", "commercial vehicles only", "trucks only")
}

func buildLoadingZone(ctx *recordContext) *curb.Rule {
	allowsTruck := strings.Contains(ctx.descLower, "truck") || strings.Contains(ctx.descLower, "commercial")
	allowsLoading := strings.Contains(ctx.descLower, "loading")
	canUse := ctx.vehicle.Type == curb.VehicleTruck && ctx.vehicle.CommercialPlate && (allowsTruck || allowsLoading)

	ruleType := curb.RuleLoadingOnly
	if strings.Contains(ctx.descLower, "truck") {
		ruleType = curb.RuleTruckLoadingOnly
	}

	severity := curb.SeverityMedium
	reason := "Commercial truck profile matches loading/truck-only zone."
	if !canUse {
		severity = curb.SeverityHigh
		reason = "Loading/truck-only zone. Requires commercial truck profile."
	}

	return &curb.Rule{
		Type:        ruleType,
		Description: ctx.description,
		Severity:    severity,
		Valid:       canUse,
		Reason:      reason,
		Source:      sourceSign,
	}
}

func isTaxiZone(ctx *recordContext) bool {
	return containsAny(ctx.descLower, "taxi stand", "taxi only", "taxicab", "taxi zone")
}

func isFHVZone(ctx *recordContext) bool {
	return containsAny(ctx.descLower, "for-hire", "for hire", "fhv", "tlc") &&
		containsAny(ctx.descLower, "stand", "pickup", "pick-up", "only", "zone")
}

func matchTaxiOrFHV(ctx *recordContext) bool {
	return isTaxiZone(ctx) || isFHVZone(ctx)
}

func buildTaxiOrFHV(ctx *recordContext) *curb.Rule {
	var (
		allowed   bool
		ruleType  curb.RuleType
		zoneLabel string
	)
	if isTaxiZone(ctx) {
		allowed = ctx.vehicle.Type == curb.VehicleTaxi
		ruleType = curb.RuleTaxiOnly
		zoneLabel = "Taxi-only zone"
	} else {
		allowed = ctx.vehicle.Type == curb.VehicleFHV || ctx.vehicle.Type == curb.VehicleTaxi
		ruleType = curb.RuleFHVOnly
		zoneLabel = "FHV/TLC zone"
	}

	severity := curb.SeverityHigh
	reason := fmt.Sprintf("%s. Current vehicle type '%s' is not eligible.", zoneLabel, ctx.vehicle.Type)
	if allowed {
		severity = curb.SeverityLow
		reason = fmt.Sprintf("%s matches current vehicle profile.", zoneLabel)
	}

	return &curb.Rule{
		Type:        ruleType,
		Description: ctx.description,
		Severity:    severity,
		Valid:       allowed,
		Reason:      reason,
		Source:      sourceSign,
	}
}

func matchFireZone(ctx *recordContext) bool {
	return containsAny(ctx.descLower, "fire zone", "fire lane", "fire department", "fdny", "emergency access")
}

func buildFireZone(ctx *recordContext) *curb.Rule {
	allowed := ctx.vehicle.Agency == curb.AgencyFire

	reason := "Fire/emergency zone reserved for authorized fire access."
	if allowed {
		reason = "Authorized fire-agency vehicle profile."
	}

	return &curb.Rule{
		Type:                 curb.RuleFireZone,
		Description:          ctx.description,
		Severity:             curb.SeverityHigh,
		EligibleVehicleTypes: []string{"fire"},
		Valid:                allowed,
		Reason:               reason,
		Source:               sourceSign,
	}
}

func matchOfficialZone(ctx *recordContext) bool {
	return containsAny(ctx.descLower,
		"police only",
		"nypd",
		"department vehicles only",
		"official vehicles only",
		"authorized vehicles only",
		"government vehicles only",
		"agency vehicles only",
	)
}

func buildOfficialZone(ctx *recordContext) *curb.Rule {
	var eligible []string
	switch {
	case containsAny(ctx.descLower, "police", "nypd"):
		eligible = []string{"police"}
	case containsAny(ctx.descLower, "fire", "fdny"):
		eligible = []string{"fire"}
	case strings.Contains(ctx.descLower, "school"):
		eligible = []string{"school"}
	default:
		eligible = []string{"city", "police", "fire", "school"}
	}

	allowed := false
	for _, agency := range eligible {
		if string(ctx.vehicle.Agency) == agency {
			allowed = true
			break
		}
	}

	severity := curb.SeverityHigh
	reason := fmt.Sprintf("Reserved for %s vehicles.", strings.Join(eligible, ", "))
	if allowed {
		severity = curb.SeverityLow
		reason = "Authorized agency profile matches reserved spot."
	}

	return &curb.Rule{
		Type:                 curb.RuleOfficialVehicleOnly,
		Description:          ctx.description,
		Severity:             severity,
		EligibleVehicleTypes: eligible,
		Valid:                allowed,
		Reason:               reason,
		Source:               sourceSign,
	}
}

func buildPassthrough(ctx *recordContext) curb.Rule {
	fine := 0
	if strings.Contains(ctx.orderType, "standing") || strings.Contains(ctx.orderType, "parking") {
		fine = 65
	}

	severity := curb.SeverityLow
	if fine > 0 {
		severity = curb.SeverityHigh
	}

	return curb.Rule{
		Type:        curb.RuleType(ctx.orderType),
		Description: ctx.description,
		Fine:        &fine,
		Severity:    severity,
		Valid:       true,
		Source:      sourceSign,
	}
}

var timeWindowPattern = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(AM|PM)\s*[-–]\s*(\d{1,2})(?::(\d{2}))?\s*(AM|PM)`)

// extractTimeWindow pulls a signage time range like "8AM - 6PM" out of free
// text, returning 24-hour HH:MM strings or empties when no range is present.
func extractTimeWindow(text string) (string, string) {
	m := timeWindowPattern.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return to24Hour(m[1], m[2], m[3]), to24Hour(m[4], m[5], m[6])
}

func to24Hour(hourStr, minuteStr, ampm string) string {
	hour := 0
	fmt.Sscanf(hourStr, "%d", &hour)
	hour = hour % 12
	if strings.EqualFold(ampm, "pm") {
		hour += 12
	}
	minute := 0
	if minuteStr != "" {
		fmt.Sscanf(minuteStr, "%d", &minute)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

var daySpecTokens = []struct {
	token string
	spec  string
}{
	{"mon-fri", "Mon-Fri"},
	{"monday-friday", "Mon-Fri"},
	{"weekdays", "Mon-Fri"},
	{"daily", "Daily"},
	{"weekends", "Weekends"},
	{"sat-sun", "Sat-Sun"},
}

// extractDaySpec scans free text for a recognizable day-of-week token and
// returns it in canonical form, or "" when none is found.
func extractDaySpec(text string) string {
	lower := strings.ToLower(text)
	for _, dt := range daySpecTokens {
		if strings.Contains(lower, dt.token) {
			return dt.spec
		}
	}
	return ""
}

// FormatDuration renders a countdown as signage-friendly "3h 45m" text.
// Negative durations clamp to zero.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}

func containsAny(s string, tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func strptr(s string) *string {
	return &s
}
