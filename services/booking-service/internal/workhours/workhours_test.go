package workhours

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"09:30": 570,
		"23:59": 1439,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		if err != nil {
			t.Fatalf("ParseClock(%q) failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %d, want %d", in, got, want)
		}
	}

	for _, bad := range []string{"9:30", "24:00", "12:60", "ab:cd", "09-30", "09:300", ""} {
		if _, err := ParseClock(bad); !errors.Is(err, ErrFormat) {
			t.Fatalf("ParseClock(%q) expected ErrFormat, got %v", bad, err)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, in := range []string{"09:00-18:00", "00:00-23:59", "07:05-07:06"} {
		h, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		if h.Open >= h.Close {
			t.Fatalf("Parse(%q) open %d not before close %d", in, h.Open, h.Close)
		}
		if h.String() != in {
			t.Fatalf("round trip mismatch: %q -> %q", in, h.String())
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, bad := range []string{"18:00-09:00", "09:00-09:00", "09:00_18:00", "9:00-18:00", "09:00-24:00", ""} {
		if _, err := Parse(bad); !errors.Is(err, ErrInvalid) {
			t.Fatalf("Parse(%q) expected ErrInvalid, got %v", bad, err)
		}
	}
}

func TestWindowUsesLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	h := Hours{Open: 9 * 60, Close: 18 * 60}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	w := h.Window(day, loc)
	if !w.Start.Equal(time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected open instant %s", w.Start)
	}
	if MinutesOf(w.End, loc) != 18*60 {
		t.Fatalf("unexpected close minute %d", MinutesOf(w.End, loc))
	}
}

func TestFormatClockWraps(t *testing.T) {
	if FormatClock(1440+65) != "01:05" {
		t.Fatalf("unexpected %q", FormatClock(1440+65))
	}
}
