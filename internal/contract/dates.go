package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/diffeffort/schema"
)

// ParseDay parses a calendar day given as YYYY-MM-DD or as a relative
// expression ("today", "yesterday", "N days ago"). The result is midnight
// of that day in now's location.
func ParseDay(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := startOfDay(now)
	switch s {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	if rest, ok := strings.CutSuffix(s, " ago"); ok {
		fields := strings.Fields(rest)
		if len(fields) == 2 && (fields[1] == "day" || fields[1] == "days") {
			n, err := strconv.Atoi(fields[0])
			if err != nil || n < 0 {
				return time.Time{}, fmt.Errorf("invalid date %q: day count must be a non-negative integer", s)
			}
			return today.AddDate(0, 0, -n), nil
		}
	}
	day, err := time.ParseInLocation(schema.DayFormat, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected YYYY-MM-DD, 'today', 'yesterday' or 'N days ago'", s)
	}
	return day, nil
}

// ResolveDays returns the days to analyze, most recent first. An explicit date
// wins over the day count; otherwise day i is today minus i for i in [0, days).
func ResolveDays(days int, date string, now time.Time) ([]time.Time, error) {
	if strings.TrimSpace(date) != "" {
		day, err := ParseDay(date, now)
		if err != nil {
			return nil, err
		}
		return []time.Time{day}, nil
	}
	if days < 1 {
		return nil, fmt.Errorf("days must be at least 1 (received %d)", days)
	}
	today := startOfDay(now)
	result := make([]time.Time, days)
	for i := range days {
		result[i] = today.AddDate(0, 0, -i)
	}
	return result, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
