package payroll

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// ParseDuration converts raw timesheet duration text into fractional hours.
// Two forms are accepted: "HH:MM" and ":MM" (zero hours, minutes only).
// Leading and trailing whitespace is ignored. Empty input and non-numeric
// components count as zero so malformed timesheet text can never abort a
// payroll run.
func ParseDuration(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}

	var hours, minutes int
	if strings.HasPrefix(raw, ":") {
		minutes = clockComponent(raw[1:])
	} else {
		parts := strings.SplitN(raw, ":", 2)
		hours = clockComponent(parts[0])
		if len(parts) > 1 {
			minutes = clockComponent(parts[1])
		}
	}
	return decimal.NewFromInt(int64(hours)).Add(decimal.NewFromInt(int64(minutes)).Div(sixty))
}

func clockComponent(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// splitClock parses a "HH:MM" clock time. ok is false when the text does not
// carry a usable hour component.
func splitClock(raw string) (hour, minute int, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(raw, ":", 2)
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	if len(parts) > 1 {
		minute = clockComponent(parts[1])
	}
	return hour, minute, true
}
