package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// MonthKey groups log entries by calendar month, formatted YYYY-MM.
type MonthKey string

// String implements fmt.Stringer.
func (m MonthKey) String() string {
	return string(m)
}

// Time returns the first day of the month in UTC.
func (m MonthKey) Time() (time.Time, error) {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, string(m))
	}
	return t, nil
}

// MonthOf returns the month key of a YYYY-MM-DD date.
func MonthOf(date string) MonthKey {
	if len(date) < 7 {
		return MonthKey(date)
	}
	return MonthKey(date[:7])
}

// MonthFromTime returns the month key containing t.
func MonthFromTime(t time.Time) MonthKey {
	return MonthKey(t.Format(monthLayout))
}

// PreviousMonth returns the calendar month before the one containing now.
func PreviousMonth(now time.Time) MonthKey {
	year, month := now.Year(), now.Month()
	if month == time.January {
		year--
		month = time.December
	} else {
		month--
	}
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParseMonth validates a YYYY-MM key.
func ParseMonth(s string) (MonthKey, error) {
	if len(s) != len(monthLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	if _, err := time.Parse(monthLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthKey(s), nil
}

// ResolveMonth returns override when given, else the month before now.
func ResolveMonth(override MonthKey, now time.Time) MonthKey {
	if override != "" {
		return override
	}
	return PreviousMonth(now)
}

// NormalizeMonth accepts either a full YYYY-MM key or a bare month number
// ("3", "03"), which is taken to be in the current year. Empty input stays
// empty so callers can fall back to ResolveMonth.
func NormalizeMonth(input string, now time.Time) (MonthKey, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if len(input) <= 2 {
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > 12 {
			return "", fmt.Errorf("%w: %q", ErrInvalidMonth, input)
		}
		return MonthKey(fmt.Sprintf("%04d-%02d", now.Year(), n)), nil
	}
	return ParseMonth(input)
}

// ParseDate validates a YYYY-MM-DD log date.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as a YYYY-MM-DD storage key.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
