package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer written by the spinner goroutine.
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

func TestSpinnerPhases(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Loading network...")
	s.Start()
	time.Sleep(3 * spinnerInterval)

	s.Update("Searching KSHG → MDHS...")
	if got := s.Message(); got != "Searching KSHG → MDHS..." {
		t.Errorf("Message() = %q, want the search phase", got)
	}
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	written := out.String()
	for _, want := range []string{"Loading network...", "Searching KSHG → MDHS..."} {
		if !strings.Contains(written, want) {
			t.Errorf("spinner output missing %q", want)
		}
	}
	if !strings.HasSuffix(written, "\r") {
		t.Error("Stop() should clear the line")
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Rendering svg...")

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() on an unstarted spinner blocked")
	}
	if out.String() != "" {
		t.Errorf("unstarted spinner wrote %q", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Searching A → Z...")
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the command context ended")
	}
}

func TestSpinnerStartTwice(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Rendering png...")
	s.Start()
	s.Start()
	s.Stop()
}
