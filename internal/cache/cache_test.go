package cache

import (
	"testing"
	"time"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(time.Minute)
	c.Put("org-1|x", 42)
	v, ok := c.Get("org-1|x")
	if !ok {
		t.Fatal("expected hit")
	}
	if v.(int) != 42 {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Put("k", "v")
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestPurgeDropsExpiredOnly(t *testing.T) {
	c := New(30 * time.Millisecond)
	c.Put("old", 1)
	time.Sleep(50 * time.Millisecond)
	c.Put("fresh", 2)
	c.Purge()
	if _, ok := c.Get("old"); ok {
		t.Fatal("expected old entry purged")
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("expected fresh entry kept")
	}
}

func TestKeyBucketsSnapshotTime(t *testing.T) {
	c := New(5 * time.Minute)
	base := time.Date(2026, 3, 4, 10, 1, 0, 0, time.UTC)
	k1 := c.Key("org-1", base)
	k2 := c.Key("org-1", base.Add(2*time.Minute))
	if k1 != k2 {
		t.Fatalf("keys inside one TTL bucket should match: %s vs %s", k1, k2)
	}
	k3 := c.Key("org-1", base.Add(10*time.Minute))
	if k1 == k3 {
		t.Fatal("keys across TTL buckets should differ")
	}
	if k1 == c.Key("org-2", base) {
		t.Fatal("keys must be tenant-scoped")
	}
}
