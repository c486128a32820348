package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"toxicheck/internal/model"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "jane"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := model.Report{
		ToxicityLevel: 42,
		Categories:    model.Categories{Profanity: 30},
		ToxicPosts:    []string{"excerpt"},
		Explanation:   "mildly spicy",
	}
	if err := c.Put(ctx, "jane", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, "jane")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.ToxicityLevel != 42 || got.Categories.Profanity != 30 || got.Explanation != "mildly spicy" {
		t.Fatalf("got %+v", got)
	}
}

func TestCacheReplaceExisting(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()
	_ = c.Put(ctx, "jane", model.Report{ToxicityLevel: 10})
	_ = c.Put(ctx, "jane", model.Report{ToxicityLevel: 90})
	got, ok, err := c.Get(ctx, "jane")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.ToxicityLevel != 90 {
		t.Fatalf("toxicityLevel = %d, want 90", got.ToxicityLevel)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := openTestCache(t, time.Nanosecond)
	ctx := context.Background()
	_ = c.Put(ctx, "jane", model.Report{ToxicityLevel: 50})
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "jane"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c := openTestCache(t, 0)
	ctx := context.Background()
	_ = c.Put(ctx, "jane", model.Report{ToxicityLevel: 50})
	if _, ok, _ := c.Get(ctx, "jane"); !ok {
		t.Fatal("expected hit with expiry disabled")
	}
}
