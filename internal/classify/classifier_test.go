package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curbside-service/internal/domain/curb"
)

var (
	passengerVehicle = curb.VehicleProfile{Type: curb.VehiclePassenger, Agency: curb.AgencyNone}
	truckVehicle     = curb.VehicleProfile{Type: curb.VehicleTruck, CommercialPlate: true, Agency: curb.AgencyNone}
)

func nyMonday(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(2026, time.February, 23, hour, min, 0, 0, loc) // Monday
}

func TestClassifyStreetCleaningActive(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "CLEANING",
		"sign_desc":  "Broom symbol - alternate side",
		"time_from":  "06:00",
		"time_to":    "09:00",
		"days":       "Mon-Fri",
	}
	rule := Classify(rec, nyMonday(t, 7, 15), passengerVehicle)

	assert.Equal(t, curb.RuleStreetCleaning, rule.Type)
	assert.False(t, rule.Valid)
	require.NotNil(t, rule.ActiveNow)
	assert.True(t, *rule.ActiveNow)
	assert.Equal(t, curb.SeverityHigh, rule.Severity)
	assert.Contains(t, rule.Reason, "active now")
	require.NotNil(t, rule.TimeLeft)
	assert.Equal(t, "1h 45m", *rule.TimeLeft)
	require.NotNil(t, rule.Window)
	assert.Equal(t, "06:00 - 09:00", *rule.Window)
	require.NotNil(t, rule.NextCleaning)
}

func TestClassifyStreetCleaningUpcoming(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "parking",
		"sign_desc":  "No parking Monday alternate side",
	}
	rule := Classify(rec, nyMonday(t, 4, 0), passengerVehicle)

	assert.Equal(t, curb.RuleStreetCleaning, rule.Type)
	assert.True(t, rule.Valid)
	require.NotNil(t, rule.ActiveNow)
	assert.False(t, *rule.ActiveNow)
	assert.Equal(t, curb.SeverityMedium, rule.Severity)
	assert.Contains(t, rule.Reason, "starts in 2h 0m")
}

func TestClassifyNoStandingFromStructuredFields(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "no_standing",
		"sign_desc":  "No standing anytime",
		"time_from":  "07:00",
		"time_to":    "19:00",
		"days":       "Mon-Fri",
	}
	rule := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)

	assert.Equal(t, curb.RuleNoStanding, rule.Type)
	assert.False(t, rule.Valid)
	assert.Contains(t, rule.Reason, "No standing active now")
}

func TestClassifyNoStandingExtractsWindowFromText(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "sign",
		"sign_desc":  "NO STANDING 8AM - 6PM MON-FRI",
	}
	rule := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)

	assert.Equal(t, curb.RuleNoStanding, rule.Type)
	assert.False(t, rule.Valid)
	require.NotNil(t, rule.Window)
	assert.Equal(t, "08:00 - 18:00", *rule.Window)
}

func TestClassifyNoStandingWithoutWindowFallsThrough(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "no_standing",
		"sign_desc":  "No standing bus stop",
	}
	rule := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)

	// Without a resolvable window this is a raw passthrough, which still
	// carries a fine because the order type mentions standing.
	assert.Equal(t, curb.RuleType("no_standing"), rule.Type)
	assert.True(t, rule.Valid)
	require.NotNil(t, rule.Fine)
	assert.Equal(t, 65, *rule.Fine)
}

func TestClassifyTruckLoadingZone(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "parking",
		"sign_desc":  "Truck Loading Only",
	}

	blocked := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)
	assert.Equal(t, curb.RuleTruckLoadingOnly, blocked.Type)
	assert.False(t, blocked.Valid)
	assert.Equal(t, curb.SeverityHigh, blocked.Severity)

	allowed := Classify(rec, nyMonday(t, 12, 0), truckVehicle)
	assert.Equal(t, curb.RuleTruckLoadingOnly, allowed.Type)
	assert.True(t, allowed.Valid)
	assert.Equal(t, curb.SeverityMedium, allowed.Severity)
}

func TestClassifyLoadingZoneWithoutTruckToken(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "parking",
		"sign_desc":  "Loading zone",
	}
	rule := Classify(rec, nyMonday(t, 12, 0), truckVehicle)

	assert.Equal(t, curb.RuleLoadingOnly, rule.Type)
	assert.True(t, rule.Valid)
}

func TestClassifyTaxiStandWithUnresolvableWindow(t *testing.T) {
	// The no-standing branch matches first but declines the record for lack
	// of a time window, so the taxi branch ends up owning it.
	rec := curb.RawRecord{"sign_desc": "Taxi stand no standing"}

	rule := Classify(rec, nyMonday(t, 12, 0), curb.VehicleProfile{Type: curb.VehicleTaxi, Agency: curb.AgencyNone})
	assert.Equal(t, curb.RuleTaxiOnly, rule.Type)
	assert.True(t, rule.Valid)
}

func TestClassifyTaxiOnly(t *testing.T) {
	rec := curb.RawRecord{"sign_desc": "TAXI ONLY"}

	taxi := Classify(rec, nyMonday(t, 12, 0), curb.VehicleProfile{Type: curb.VehicleTaxi, Agency: curb.AgencyNone})
	assert.Equal(t, curb.RuleTaxiOnly, taxi.Type)
	assert.True(t, taxi.Valid)

	passenger := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)
	assert.False(t, passenger.Valid)
	assert.Contains(t, passenger.Reason, "not eligible")
}

func TestClassifyFHVZone(t *testing.T) {
	rec := curb.RawRecord{"sign_desc": "For-Hire Vehicles pick-up zone"}

	fhv := Classify(rec, nyMonday(t, 12, 0), curb.VehicleProfile{Type: curb.VehicleFHV, Agency: curb.AgencyNone})
	assert.Equal(t, curb.RuleFHVOnly, fhv.Type)
	assert.True(t, fhv.Valid)

	// Taxis may use FHV zones too.
	taxi := Classify(rec, nyMonday(t, 12, 0), curb.VehicleProfile{Type: curb.VehicleTaxi, Agency: curb.AgencyNone})
	assert.True(t, taxi.Valid)

	passenger := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)
	assert.False(t, passenger.Valid)
}

func TestClassifyFireZone(t *testing.T) {
	rec := curb.RawRecord{"sign_desc": "FIRE LANE - DO NOT BLOCK"}

	civilian := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)
	assert.Equal(t, curb.RuleFireZone, civilian.Type)
	assert.False(t, civilian.Valid)
	assert.Equal(t, []string{"fire"}, civilian.EligibleVehicleTypes)

	fire := Classify(rec, nyMonday(t, 12, 0), curb.VehicleProfile{Type: curb.VehiclePassenger, Agency: curb.AgencyFire})
	assert.True(t, fire.Valid)
}

func TestClassifyOfficialVehicleZone(t *testing.T) {
	rec := curb.RawRecord{
		"order_type": "parking",
		"sign_desc":  "NYPD Official Vehicles Only",
	}

	civilian := Classify(rec, nyMonday(t, 12, 0), passengerVehicle)
	assert.Equal(t, curb.RuleOfficialVehicleOnly, civilian.Type)
	assert.False(t, civilian.Valid)
	assert.Equal(t, []string{"police"}, civilian.EligibleVehicleTypes)

	police := Classify(rec, nyMonday(t, 12, 0), curb.VehicleProfile{Type: curb.VehiclePassenger, Agency: curb.AgencyPolice})
	assert.True(t, police.Valid)
}

func TestClassifyOfficialVehicleEligibilityGroups(t *testing.T) {
	tests := []struct {
		desc     string
		eligible []string
	}{
		{"NYPD vehicles only", []string{"police"}},
		{"FDNY department vehicles only", []string{"fire"}},
		{"School department vehicles only", []string{"school"}},
		{"Authorized vehicles only", []string{"city", "police", "fire", "school"}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rule := Classify(curb.RawRecord{"sign_desc": tt.desc}, nyMonday(t, 12, 0), passengerVehicle)
			assert.Equal(t, curb.RuleOfficialVehicleOnly, rule.Type)
			assert.Equal(t, tt.eligible, rule.EligibleVehicleTypes)
		})
	}
}

func TestClassifyPassthrough(t *testing.T) {
	rule := Classify(curb.RawRecord{
		"order_type": "Curb Cut",
		"sign_desc":  "Curb cut, keep clear",
	}, nyMonday(t, 12, 0), passengerVehicle)

	assert.Equal(t, curb.RuleType("curb cut"), rule.Type)
	assert.True(t, rule.Valid)
	require.NotNil(t, rule.Fine)
	assert.Equal(t, 0, *rule.Fine)
	assert.Equal(t, curb.SeverityLow, rule.Severity)
}

func TestClassifyPassthroughParkingOrderTypeCarriesFine(t *testing.T) {
	rule := Classify(curb.RawRecord{
		"order_type": "parking",
		"sign_desc":  "2 hour limit",
	}, nyMonday(t, 12, 0), passengerVehicle)

	require.NotNil(t, rule.Fine)
	assert.Equal(t, 65, *rule.Fine)
	assert.Equal(t, curb.SeverityHigh, rule.Severity)
}

func TestClassifyMissingDescription(t *testing.T) {
	rule := Classify(curb.RawRecord{"order_type": "unknown"}, nyMonday(t, 12, 0), passengerVehicle)
	assert.Equal(t, "No description", rule.Description)
}

func TestExtractTimeWindow(t *testing.T) {
	tests := []struct {
		text       string
		start, end string
	}{
		{"NO STANDING 8AM - 6PM", "08:00", "18:00"},
		{"no standing 8:30am-6:15pm", "08:30", "18:15"},
		{"NO STANDING 11 PM – 7 AM", "23:00", "07:00"},
		{"NO STANDING 12PM - 12AM", "12:00", "00:00"},
		{"no standing anytime", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			start, end := extractTimeWindow(tt.text)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestExtractDaySpec(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"no standing mon-fri", "Mon-Fri"},
		{"no standing MONDAY-FRIDAY", "Mon-Fri"},
		{"weekdays only", "Mon-Fri"},
		{"daily sweep", "Daily"},
		{"weekends", "Weekends"},
		{"sat-sun", "Sat-Sun"},
		{"no day tokens here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDaySpec(tt.text))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h 45m", FormatDuration(time.Hour+45*time.Minute))
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "0h 0m", FormatDuration(-time.Minute))
	assert.Equal(t, "24h 0m", FormatDuration(24*time.Hour))
}
