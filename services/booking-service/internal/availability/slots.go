package availability

import "time"

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back intervals,
// where one ends exactly when the other starts, do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Contains reports whether o lies entirely within i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Slot is one cell of the availability grid.
type Slot struct {
	Interval
	Available bool
}

// Grid lays fixed, non-overlapping slots of length duration across window, starting at
// window.Start and stepping by duration. A trailing remainder shorter than duration is
// dropped. A slot is unavailable when it overlaps any busy interval or starts before
// cutoff; a zero cutoff disables the elapsed-time rule.
func Grid(window Interval, duration time.Duration, busy []Interval, cutoff time.Time) []Slot {
	if duration <= 0 || !window.End.After(window.Start) {
		return nil
	}

	var slots []Slot
	for t := window.Start; !t.Add(duration).After(window.End); t = t.Add(duration) {
		slot := Interval{Start: t, End: t.Add(duration)}
		available := !OverlapsAny(slot, busy)
		if !cutoff.IsZero() && t.Before(cutoff) {
			available = false
		}
		slots = append(slots, Slot{Interval: slot, Available: available})
	}
	return slots
}

func OverlapsAny(slot Interval, busy []Interval) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
