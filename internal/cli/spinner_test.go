package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = old })
	return &buf
}

func TestSpinnerStop(t *testing.T) {
	buf := captureStatus(t)

	s := newSpinner(context.Background(), "Loading taxdump...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
	if !strings.Contains(buf.String(), "Loading taxdump...") {
		t.Errorf("spinner did not render its message: %q", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	captureStatus(t)

	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinner(ctx, "Fetching...")
			s.Start()
			cancel()
			time.Sleep(50 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	captureStatus(t)

	s := newSpinner(context.Background(), "Working...")
	s.Start()
	s.Stop()
	s.Stop()

	// Never started.
	newSpinner(context.Background(), "Idle").Stop()
}

func TestSpinnerStopWithError(t *testing.T) {
	buf := captureStatus(t)

	s := newSpinner(context.Background(), "Fetching...")
	s.Start()
	s.StopWithError("Fetch failed")

	if !strings.Contains(buf.String(), "Fetch failed") {
		t.Errorf("missing error line: %q", buf.String())
	}
}
