package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("Get() hit on empty cache")
	}
	if err := c.Set(ctx, "k", []byte("layout"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "layout" {
		t.Errorf("Get() = %q, %v, %v", data, ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete() = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("x"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry returned")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("x"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("corrupt entry: ok=%v err=%v", ok, err)
	}
}

func TestLayoutKey(t *testing.T) {
	type fig struct{ Nodes []string }
	a := LayoutKey(fig{[]string{"a", "b"}}, map[string]int{"margin": 20})
	b := LayoutKey(fig{[]string{"a", "b"}}, map[string]int{"margin": 20})
	c := LayoutKey(fig{[]string{"a", "b"}}, map[string]int{"margin": 10})
	if a != b {
		t.Error("equal inputs gave different keys")
	}
	if a == c {
		t.Error("config change did not change the key")
	}
}

func TestNullCache(t *testing.T) {
	var c Cache = NullCache{}
	_ = c.Set(context.Background(), "k", []byte("x"), 0)
	if _, ok, _ := c.Get(context.Background(), "k"); ok {
		t.Error("NullCache stored a value")
	}
}
