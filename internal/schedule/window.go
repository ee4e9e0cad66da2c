// Package schedule evaluates recurring weekly regulation windows against a
// reference instant: is the window active now, when is the next boundary, and
// how long until it.
package schedule

import (
	"strings"
	"time"
)

// DefaultTimezone is the zone curb regulations are evaluated in unless a
// record carries its own.
const DefaultTimezone = "America/New_York"

const (
	CountdownUntilStart = "until_start"
	CountdownUntilEnd   = "until_end"
)

// Evaluation is the transient result of one window check.
type Evaluation struct {
	ActiveNow     bool
	NextStart     time.Time
	CurrentStart  *time.Time
	CurrentEnd    *time.Time
	Countdown     time.Duration
	CountdownMode string
	Timezone      string
}

// Day indices run Monday=0 .. Sunday=6 so that signage ranges like "Fri-Mon"
// wrap naturally across the week boundary.
var dayIndex = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tues": 1, "tuesday": 1,
	"wed": 2, "weds": 2, "wednesday": 2,
	"thu": 3, "thur": 3, "thurs": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ParseDaysSpec turns a free-form day specification into the set of active
// day indices. Empty or unparseable input defaults to Mon-Fri, which is the
// dominant pattern on NYC signage.
func ParseDaysSpec(spec string) map[int]bool {
	weekdaysOnly := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}

	raw := strings.ToLower(strings.TrimSpace(spec))
	if raw == "" {
		return weekdaysOnly
	}

	switch raw {
	case "daily", "everyday", "all", "all days":
		return map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	case "weekdays", "mon-fri":
		return weekdaysOnly
	case "weekends", "sat-sun":
		return map[int]bool{5: true, 6: true}
	}

	normalized := strings.NewReplacer("&", ",", "/", ",", " and ", ",", ";", ",").Replace(raw)
	result := make(map[int]bool)

	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			tokens := strings.SplitN(part, "-", 2)
			startIdx, okStart := dayIndex[strings.TrimSpace(tokens[0])]
			endIdx, okEnd := dayIndex[strings.TrimSpace(tokens[1])]
			if okStart && okEnd {
				if startIdx <= endIdx {
					for i := startIdx; i <= endIdx; i++ {
						result[i] = true
					}
				} else {
					for i := startIdx; i < 7; i++ {
						result[i] = true
					}
					for i := 0; i <= endIdx; i++ {
						result[i] = true
					}
				}
			}
			continue
		}

		if idx, ok := dayIndex[part]; ok {
			result[idx] = true
		}
	}

	if len(result) == 0 {
		return weekdaysOnly
	}
	return result
}

// ClockTime is a zone-free wall-clock time of day.
type ClockTime struct {
	Hour, Min, Sec int
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3 PM"}

// ParseTimeValue parses a signage time-of-day in 24-hour or 12-hour notation.
// Unparseable input returns the fallback rather than an error.
func ParseTimeValue(value string, fallback ClockTime) ClockTime {
	candidate := strings.ToUpper(strings.TrimSpace(value))
	if candidate == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return ClockTime{t.Hour(), t.Minute(), t.Second()}
		}
	}
	return fallback
}

// Evaluate checks a recurring window in the default regulation timezone.
func Evaluate(now time.Time, daysSpec, startTime, endTime string) Evaluation {
	return EvaluateInZone(now, daysSpec, startTime, endTime, DefaultTimezone)
}

// EvaluateInZone checks a recurring weekly window against now, with all
// weekday and wall-clock arithmetic done in the named zone. Windows whose end
// does not fall after their start roll the end to the next day, which covers
// overnight spans like 22:00-06:00.
func EvaluateInZone(now time.Time, daysSpec, startTime, endTime, timezone string) Evaluation {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	localNow := now.In(loc)

	activeDays := ParseDaysSpec(daysSpec)
	startT := ParseTimeValue(startTime, ClockTime{Hour: 6})
	endT := ParseTimeValue(endTime, ClockTime{Hour: 9})

	buildWindow := func(anchor time.Time) (time.Time, time.Time) {
		start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), startT.Hour, startT.Min, startT.Sec, 0, loc)
		end := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), endT.Hour, endT.Min, endT.Sec, 0, loc)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		return start, end
	}

	var currentStart, currentEnd *time.Time
	activeNow := false
	if activeDays[weekdayIndex(localNow.Weekday())] {
		todayStart, todayEnd := buildWindow(localNow)
		if !localNow.Before(todayStart) && localNow.Before(todayEnd) {
			activeNow = true
			currentStart, currentEnd = &todayStart, &todayEnd
		}
	}

	// First upcoming start: today if still ahead of now, else scan forward.
	// The loop bound is inclusive of a full week so it terminates even for
	// degenerate day sets.
	var nextStart time.Time
	found := false
	for offset := 0; offset <= 7; offset++ {
		anchor := localNow.AddDate(0, 0, offset)
		if !activeDays[weekdayIndex(anchor.Weekday())] {
			continue
		}
		start, _ := buildWindow(anchor)
		if !start.Before(localNow) {
			nextStart = start
			found = true
			break
		}
	}
	if !found {
		tomorrow := localNow.AddDate(0, 0, 1)
		nextStart = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), startT.Hour, startT.Min, 0, 0, loc)
	}

	var countdown time.Duration
	mode := CountdownUntilStart
	if activeNow && currentEnd != nil {
		countdown = currentEnd.Sub(localNow)
		mode = CountdownUntilEnd
	} else {
		countdown = nextStart.Sub(localNow)
	}

	return Evaluation{
		ActiveNow:     activeNow,
		NextStart:     nextStart,
		CurrentStart:  currentStart,
		CurrentEnd:    currentEnd,
		Countdown:     countdown,
		CountdownMode: mode,
		Timezone:      timezone,
	}
}
