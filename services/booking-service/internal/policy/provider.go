package policy

import (
	"context"
	"time"
)

// DefaultCancellationWindow is how long before the start a subject may no longer cancel.
const DefaultCancellationWindow = 2 * time.Hour

// Provider resolves per-business booking policy.
type Provider interface {
	CancellationWindow(ctx context.Context, businessID string) (time.Duration, error)
}

type staticProvider struct {
	window time.Duration
}

// NewStaticProvider applies the same window to every business. A non-positive window
// falls back to DefaultCancellationWindow.
func NewStaticProvider(window time.Duration) Provider {
	if window <= 0 {
		window = DefaultCancellationWindow
	}
	return &staticProvider{window: window}
}

func (p *staticProvider) CancellationWindow(_ context.Context, _ string) (time.Duration, error) {
	return p.window, nil
}

// CancellationBlocked reports whether a cancellation at now falls inside the closed window
// before start. Appointments that already started stay cancellable.
func CancellationBlocked(start, now time.Time, window time.Duration) bool {
	until := start.Sub(now)
	return until > 0 && until < window
}
