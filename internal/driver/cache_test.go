package driver

import (
	"path/filepath"
	"testing"
)

func TestDiskCache(t *testing.T) {
	c, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	key := cacheKey("text", "fp")
	var got CachePayload
	if ok, err := c.Get(key, &got); ok || err != nil {
		t.Fatalf("Get() on empty cache = %v, %v", ok, err)
	}
	if err := c.Put(key, &CachePayload{Path: "a.go", Regions: 2, Stamp: 1}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ok, err := c.Get(key, &got); !ok || err != nil {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.Path != "a.go" || got.Regions != 2 || got.Schema != cacheSchemaVersion {
		t.Errorf("payload = %+v", got)
	}
	if cacheKey("text", "fp2") == key || cacheKey("text2", "fp") == key {
		t.Error("cache key ignores its inputs")
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll() error = %v", err)
	}
	if ok, _ := c.Get(key, &got); ok {
		t.Error("entry survived DropAll")
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &CachePayload{}); err != nil {
		t.Error(err)
	}
	if ok, err := c.Get(Digest{}, &CachePayload{}); ok || err != nil {
		t.Errorf("Get() = %v, %v", ok, err)
	}
}
