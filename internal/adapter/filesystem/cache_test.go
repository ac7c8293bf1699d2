package filesystem

import (
	"io"
	"strings"
	"testing"
)

// TestCacheRoundTrip verifies put, stat and read of one entry.
func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	const key = "docfile:42"
	if cache.Has(key) {
		t.Fatalf("empty cache reports the key")
	}

	n, err := cache.Put(key, strings.NewReader("hello media"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if n != int64(len("hello media")) {
		t.Fatalf("Put wrote %d bytes", n)
	}
	if !cache.Has(key) || cache.Size(key) != n {
		t.Fatalf("cached entry not visible: has=%v size=%d", cache.Has(key), cache.Size(key))
	}

	r, err := cache.Open(key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "hello media" {
		t.Fatalf("cached data = %q", data)
	}
}

// TestCacheRemove verifies removal is idempotent.
func TestCacheRemove(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	const key = "photofile:1:x"
	if _, err := cache.Put(key, strings.NewReader("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.Remove(key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if cache.Has(key) {
		t.Fatalf("entry survived removal")
	}
	if err := cache.Remove(key); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
}

// TestCacheKeyIsolation verifies distinct keys map to distinct paths.
func TestCacheKeyIsolation(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if cache.Path("a") == cache.Path("b") {
		t.Fatalf("distinct keys collide")
	}
	if _, err := cache.Put("a", strings.NewReader("one")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if cache.Has("b") {
		t.Fatalf("unrelated key visible")
	}
}
