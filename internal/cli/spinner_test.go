package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func terminalSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &out
	s.enabled = true
	return s, &out
}

func TestSpinnerRendersMessage(t *testing.T) {
	s, out := terminalSpinner(context.Background(), "Looking up advisories...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Looking up advisories...") {
		t.Errorf("spinner output %q does not contain the message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner should clear its line on stop, got %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not mark the spinner cancelled")
	}
}

func TestSpinnerDisabled(t *testing.T) {
	s, out := terminalSpinner(context.Background(), "quiet")
	s.enabled = false
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if got := out.String(); got != "" {
		t.Errorf("disabled spinner wrote %q", got)
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s, _ := terminalSpinner(ctx, "Looking up advisories...")
			s.Start()
			time.Sleep(100 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation of its context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s, _ := terminalSpinner(context.Background(), "Stacking tower...")
		s.Start()
		s.Stop()
		s.Stop()
	})

	t.Run("never started", func(t *testing.T) {
		s, _ := terminalSpinner(context.Background(), "Stacking tower...")
		done := make(chan struct{})
		go func() {
			s.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stop blocked on a spinner that was never started")
		}
	})

	t.Run("with status", func(t *testing.T) {
		s, _ := terminalSpinner(context.Background(), "Stacking tower...")
		s.Start()
		s.StopWithSuccess("Layout complete")

		s, _ = terminalSpinner(context.Background(), "Stacking tower...")
		s.Start()
		s.StopWithError("Layout failed")
	})
}
