package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a mapping time is not a valid HH:mm value.
var ErrInvalidTime = errors.New("invalid time of day")

// Clock is a time of day with minute resolution. It carries no calendar date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:mm" (a single-digit hour and a trailing ":ss" are
// accepted; seconds are ignored).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := parseField(parts[0], 1, 23)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := parseField(parts[1], 2, 59)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if len(parts) == 3 {
		if _, err := parseField(parts[2], 2, 59); err != nil {
			return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	return Clock{Hour: h, Minute: m}, nil
}

func parseField(s string, minDigits, max int) (int, error) {
	if len(s) < minDigits || len(s) > 2 {
		return 0, errors.New("bad width")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a number")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, errors.New("out of range")
	}
	return n, nil
}

// ClockOf returns the time of day of t, truncated to the minute.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// On projects c onto the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
