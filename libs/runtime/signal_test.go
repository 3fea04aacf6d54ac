package runtime

import (
	"context"
	"io"
	"log/slog"
	"syscall"
	"testing"
	"time"
)

func TestSignalContextCancelsOnSIGTERM(t *testing.T) {
	ctx, cancel := SignalContext(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer cancel()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill failed: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}

func TestSignalContextFollowsParent(t *testing.T) {
	parent, stopParent := context.WithCancel(context.Background())
	ctx, cancel := SignalContext(parent, nil)
	defer cancel()

	stopParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}
}
