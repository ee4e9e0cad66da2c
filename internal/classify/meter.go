package classify

import (
	"strings"

	"curbside-service/internal/domain/curb"
)

const sourceMeters = "NYC Parking Meters"

// ParseMeterRecord turns one meter row into a metered rule. A meter is a
// payment reminder rather than a restriction: the rule is valid only while
// the meter itself is in service.
func ParseMeterRecord(rec curb.RawRecord) curb.Rule {
	status := strings.ToLower(rec.String("status", ""))
	active := status == "active"

	severity := curb.SeverityInfo
	reason := "Inactive or outside operating hours"
	if active {
		severity = curb.SeverityLow
		reason = ""
	}

	return curb.Rule{
		Type:        curb.RuleMetered,
		Description: rec.String("meter_hours", "Pay & Display"),
		Rate:        strptr("3.50 USD/hour"),
		MaxTime:     strptr(rec.String("max_time", "2 hours")),
		Hours:       strptr(rec.String("hours", "08:00 - 20:00 Mon-Fri")),
		ActiveNow:   &active,
		Severity:    severity,
		Valid:       active,
		Reason:      reason,
		Source:      sourceMeters,
	}
}
