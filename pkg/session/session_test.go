package session

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/orthonet/pkg/config"
	"github.com/matzehuels/orthonet/pkg/engine"
	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/graph"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	s := New(engine.New(config.Default()))
	if err := store.Set(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v", got, err)
	}

	tests := []struct {
		name string
		id   string
	}{
		{"malformed", "not-a-uuid"},
		{"unknown", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Get(ctx, tt.id); !errors.Is(err, errors.ErrCodeSessionNotFound) {
				t.Errorf("Get(%q) error = %v", tt.id, err)
			}
		})
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after delete", store.Len())
	}
	if err := store.Delete(ctx, s.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete() = %v", err)
	}
}

func TestCleanupExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	idle := New(engine.New(config.Default()))
	idle.lastUsed = time.Now().Add(-2 * time.Minute)
	fresh := New(engine.New(config.Default()))
	_ = store.Set(ctx, idle)
	_ = store.Set(ctx, fresh)

	n, err := store.Cleanup(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Cleanup() = %d, %v", n, err)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
	if _, err := idle.Engine.Update(ctx, graph.Figure{}); !errors.Is(err, errors.ErrCodeEngineClosed) {
		t.Errorf("expired engine still open: %v", err)
	}
}
