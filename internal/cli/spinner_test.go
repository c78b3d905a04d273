package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Routing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.StopWithSuccess("done")
	s.Stop()

	if s.Cancelled() == false {
		t.Error("Stop() should cancel the spinner context")
	}
	if !strings.Contains(buf.String(), "Routing...") || !strings.Contains(buf.String(), "done") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "waiting")
	s.Start()
	time.Sleep(60 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("spinner should be cancelled after the context deadline")
	}
	s.Stop()
}
