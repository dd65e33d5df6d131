package cache

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	if _, err := New(0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("New(0) error = %v, want ErrInvalidSize", err)
	}
}

func TestPutUpdatesExistingEntryWithoutGrowingSize(t *testing.T) {
	cache, err := New(1)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	key1 := "alpha"
	key2 := "beta"
	initialValue := strings.Repeat("x", 16)
	updatedValue := strings.Repeat("y", 24)

	if err := cache.Put(key1, initialValue); err != nil {
		t.Fatalf("put initial key1 failed: %v", err)
	}
	if err := cache.Put(key2, "value"); err != nil {
		t.Fatalf("put key2 failed: %v", err)
	}

	sizeBeforeUpdate := cache.SizeOf()
	key1OriginalSize := sizeof(&Entry{Key: key1, Value: initialValue})
	key1UpdatedSize := sizeof(&Entry{Key: key1, Value: updatedValue})

	if err := cache.Put(key1, updatedValue); err != nil {
		t.Fatalf("put updated key1 failed: %v", err)
	}

	expectedSize := sizeBeforeUpdate - int64(key1OriginalSize) + int64(key1UpdatedSize)
	if cache.SizeOf() != expectedSize {
		t.Fatalf("unexpected cache size: got %d, want %d", cache.SizeOf(), expectedSize)
	}
	if cache.Len() != 2 {
		t.Fatalf("unexpected entry count: got %d, want 2", cache.Len())
	}

	if value, hit, err := cache.Get(key2); err != nil || !hit || value != "value" {
		t.Fatalf("expected key2 to remain in cache, hit=%v err=%v value=%v", hit, err, value)
	}
}

type revisionKey struct {
	buffer, document uint64
	width            int
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := New(1)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	first := revisionKey{buffer: 1, width: 80}
	second := revisionKey{buffer: 2, width: 80}
	third := revisionKey{buffer: 3, width: 80}
	big := bytes.Repeat([]byte("a"), 400*1024)

	for _, k := range []revisionKey{first, second} {
		if err := cache.Put(k, big); err != nil {
			t.Fatalf("put %v failed: %v", k, err)
		}
	}
	// Touch first so second becomes the eviction candidate.
	if _, hit, _ := cache.Get(first); !hit {
		t.Fatalf("expected first to be cached")
	}
	if err := cache.Put(third, big); err != nil {
		t.Fatalf("put third failed: %v", err)
	}

	if _, hit, _ := cache.Get(second); hit {
		t.Errorf("expected second to be evicted")
	}
	for _, k := range []revisionKey{first, third} {
		if _, hit, _ := cache.Get(k); !hit {
			t.Errorf("expected %v to remain cached", k)
		}
	}
	if cache.SizeOf() > 1024*1024 {
		t.Errorf("cache size exceeded limit: %d", cache.SizeOf())
	}
}

func TestPutRejectsOversizedEntry(t *testing.T) {
	cache, err := New(1)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	err = cache.Put("huge", bytes.Repeat([]byte("z"), 2*1024*1024))
	if !errors.Is(err, ErrEntryTooLarge) {
		t.Fatalf("Put() error = %v, want ErrEntryTooLarge", err)
	}
	if cache.Len() != 0 {
		t.Errorf("oversized entry was stored")
	}
}

func TestRejectsUncomparableKeys(t *testing.T) {
	cache, err := New(1)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	if err := cache.Put([]byte("k"), "v"); !errors.Is(err, ErrUnhashableKey) {
		t.Errorf("Put() error = %v, want ErrUnhashableKey", err)
	}
	if _, _, err := cache.Get(nil); !errors.Is(err, ErrUnhashableKey) {
		t.Errorf("Get(nil) error = %v, want ErrUnhashableKey", err)
	}
}

func TestReadableSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1536, "1.5 KiB"},
		{50 * 1024 * 1024, "50 MiB"},
	}
	for _, tt := range tests {
		if got := ReadableSize(tt.in); got != tt.want {
			t.Errorf("ReadableSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
