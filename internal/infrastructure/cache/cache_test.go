package cache_test

import (
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/infrastructure/cache"
)

func TestInMemory_SetGetDelete(t *testing.T) {
	c := cache.New[int](time.Minute)
	defer c.Close()

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", v, ok)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestInMemory_Expires(t *testing.T) {
	c := cache.New[string](10 * time.Millisecond)
	defer c.Close()

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}
