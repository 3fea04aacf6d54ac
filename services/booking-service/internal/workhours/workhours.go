// Package workhours converts wall-clock times and "HH:mm-HH:mm" working-hours strings
// into minutes since local midnight.
package workhours

import (
	"errors"
	"fmt"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/availability"
)

const MinutesPerDay = 24 * 60

var (
	// ErrFormat reports a time of day that is not zero-padded 24-hour HH:mm.
	ErrFormat = errors.New("time must be HH:mm")
	// ErrInvalid reports a working-hours string that does not parse to open < close.
	ErrInvalid = errors.New("working hours must be HH:mm-HH:mm with open before close")
)

// Hours is a daily [Open, Close) window in minutes since local midnight.
type Hours struct {
	Open  int
	Close int
}

// ParseClock converts "HH:mm" into minutes since midnight in [0, 1440).
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesOf returns the local wall-clock minute of t in loc.
func MinutesOf(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// Parse reads "HH:mm-HH:mm".
func Parse(s string) (Hours, error) {
	if len(s) != 11 || s[5] != '-' {
		return Hours{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	open, err := ParseClock(s[:5])
	if err != nil {
		return Hours{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	closing, err := ParseClock(s[6:])
	if err != nil {
		return Hours{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if open >= closing {
		return Hours{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Hours{Open: open, Close: closing}, nil
}

func (h Hours) String() string {
	return FormatClock(h.Open) + "-" + FormatClock(h.Close)
}

// Window returns the absolute [open, close) interval of the local calendar day containing day.
func (h Hours) Window(day time.Time, loc *time.Location) availability.Interval {
	return availability.Interval{
		Start: At(day, h.Open, loc),
		End:   At(day, h.Close, loc),
	}
}

// At returns the instant at minutes past local midnight on the calendar day of day in loc.
// Building it from wall-clock fields keeps DST days correct.
func At(day time.Time, minutes int, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
