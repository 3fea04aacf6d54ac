package policy

import (
	"context"
	"testing"
	"time"
)

func TestStaticProviderDefaults(t *testing.T) {
	w, err := NewStaticProvider(0).CancellationWindow(context.Background(), "biz-1")
	if err != nil || w != DefaultCancellationWindow {
		t.Fatalf("expected default window, got %s (%v)", w, err)
	}
	w, _ = NewStaticProvider(45*time.Minute).CancellationWindow(context.Background(), "biz-1")
	if w != 45*time.Minute {
		t.Fatalf("expected 45m, got %s", w)
	}
}

func TestCancellationBlocked(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"in 90 minutes", now.Add(90 * time.Minute), true},
		{"in 3 hours", now.Add(3 * time.Hour), false},
		{"exactly at window", now.Add(2 * time.Hour), false},
		{"starting now", now, false},
		{"already started", now.Add(-30 * time.Minute), false},
	}
	for _, tc := range cases {
		if got := CancellationBlocked(tc.start, now, DefaultCancellationWindow); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
