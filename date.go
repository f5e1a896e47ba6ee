package plantchart

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayFirstRE  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2})`)
	yearFirstRE = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})\s+(\d{1,2}):(\d{2})`)
)

// fallbackLayouts are tried in order when neither of the numeric patterns match
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	time.DateOnly,
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	time.RFC1123,
	time.ANSIC,
}

// ParseDate converts a raw CSV date cell into a point in time. A reading
// taken at exactly 00:00 is the closing reading of the previous day, so it
// is moved forward by one calendar day.
func ParseDate(input string, loc *time.Location) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	result, ok := parseNumericDate(input, loc)
	if !ok {
		result, ok = parseLayouts(input, loc)
	}
	if !ok {
		return time.Time{}, false
	}

	if result.Hour() == 0 && result.Minute() == 0 {
		result = result.AddDate(0, 0, 1)
	}
	return result, true
}

func parseNumericDate(input string, loc *time.Location) (time.Time, bool) {
	if match := dayFirstRE.FindStringSubmatch(input); match != nil {
		return dateFromParts(match[3], match[2], match[1], match[4], match[5], loc)
	}
	if match := yearFirstRE.FindStringSubmatch(input); match != nil {
		return dateFromParts(match[1], match[2], match[3], match[4], match[5], loc)
	}
	return time.Time{}, false
}

// dateFromParts builds the time directly from the matched integers. Out of
// range parts normalize the way time.Date does.
func dateFromParts(year, month, day, hour, minute string, loc *time.Location) (time.Time, bool) {
	parts := make([]int, 5)
	for i, s := range []string{year, month, day, hour, minute} {
		v, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = v
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, loc), true
}

func parseLayouts(input string, loc *time.Location) (time.Time, bool) {
	for _, layout := range fallbackLayouts {
		result, err := time.ParseInLocation(layout, input, loc)
		if err == nil {
			return result.In(loc), true
		}
	}
	return time.Time{}, false
}

// FormatEndOfDay renders a rolled-over midnight as "DD/MM/YYYY 24:00" of the
// day it closes. Any other time is formatted as "DD/MM/YYYY HH:MM".
func FormatEndOfDay(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		prev := t.AddDate(0, 0, -1)
		return fmt.Sprintf("%s 24:00", prev.Format("02/01/2006"))
	}
	return t.Format("02/01/2006 15:04")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
