package availability

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 1, 28, h, m, 0, 0, time.UTC)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := Interval{Start: at(0, 0), End: at(0, 30)}
	b := Interval{Start: at(0, 30), End: at(1, 0)}
	if a.Overlaps(b) || b.Overlaps(a) {
		t.Fatal("adjacent intervals must not overlap")
	}

	c := Interval{Start: at(0, 0), End: at(0, 31)}
	if !c.Overlaps(b) || !b.Overlaps(c) {
		t.Fatal("expected one minute overlap in both directions")
	}

	inner := Interval{Start: at(0, 10), End: at(0, 20)}
	if !a.Overlaps(inner) || !inner.Overlaps(a) {
		t.Fatal("containment must overlap")
	}
}

func TestGridEvenDivision(t *testing.T) {
	slots := Grid(Interval{Start: at(9, 0), End: at(10, 0)}, 30*time.Minute, nil, time.Time{})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(9, 0)) || !slots[0].End.Equal(at(9, 30)) {
		t.Fatalf("unexpected first slot %+v", slots[0])
	}
	if !slots[1].Start.Equal(at(9, 30)) || !slots[1].End.Equal(at(10, 0)) {
		t.Fatalf("unexpected second slot %+v", slots[1])
	}
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("expected all slots available, got %+v", s)
		}
	}
}

func TestGridDropsPartialRemainder(t *testing.T) {
	slots := Grid(Interval{Start: at(9, 0), End: at(10, 0)}, 40*time.Minute, nil, time.Time{})
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].End.Equal(at(9, 40)) {
		t.Fatalf("expected 09:00-09:40, got %+v", slots[0])
	}
}

func TestGridMarksBusy(t *testing.T) {
	busy := []Interval{{Start: at(9, 30), End: at(10, 0)}}
	slots := Grid(Interval{Start: at(9, 0), End: at(11, 0)}, 30*time.Minute, busy, time.Time{})
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	for _, s := range slots {
		want := !s.Start.Equal(at(9, 30))
		if s.Available != want {
			t.Fatalf("slot %s available=%v, want %v", s.Start.Format("15:04"), s.Available, want)
		}
	}
}

func TestGridMarksElapsed(t *testing.T) {
	slots := Grid(Interval{Start: at(9, 0), End: at(10, 0)}, 15*time.Minute, nil, at(9, 31))
	// 09:00, 09:15, 09:30 started before the cutoff; 09:45 is still open.
	want := []bool{false, false, false, true}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.Available != want[i] {
			t.Fatalf("slot %d available=%v, want %v", i, s.Available, want[i])
		}
	}
}

func TestGridDegenerateInput(t *testing.T) {
	if Grid(Interval{Start: at(10, 0), End: at(9, 0)}, 30*time.Minute, nil, time.Time{}) != nil {
		t.Fatal("expected nil for inverted window")
	}
	if Grid(Interval{Start: at(9, 0), End: at(10, 0)}, 0, nil, time.Time{}) != nil {
		t.Fatal("expected nil for zero duration")
	}
	if Grid(Interval{Start: at(9, 0), End: at(9, 20)}, 30*time.Minute, nil, time.Time{}) != nil {
		t.Fatal("expected nil when the window is shorter than one slot")
	}
}
