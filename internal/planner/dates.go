package planner

import (
	"fmt"
	"time"

	"github.com/gurkanbulca/dayplan/internal/models"
)

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	return d, nil
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func validStartTime(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// qualifies reports whether day belongs to a series anchored at anchor
func qualifies(pattern models.RecurrencePattern, anchor, day time.Time) bool {
	switch pattern {
	case models.PatternDaily:
		return true
	case models.PatternWeekly:
		return day.Weekday() == anchor.Weekday()
	case models.PatternWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case models.PatternMonthly:
		return day.Day() == anchor.Day()
	}
	return false
}

// nextDates walks forward day by day from the day after `after` and returns
// up to n qualifying days no later than limit. n <= 0 means no count limit.
func nextDates(pattern models.RecurrencePattern, anchor, after, limit time.Time, n int) []time.Time {
	var out []time.Time
	if !pattern.Valid() {
		return out
	}
	for d := after.AddDate(0, 0, 1); !d.After(limit); d = d.AddDate(0, 0, 1) {
		if n > 0 && len(out) >= n {
			break
		}
		if qualifies(pattern, anchor, d) {
			out = append(out, d)
		}
	}
	return out
}
