package cache

import (
	"testing"
	"time"
)

func TestStore_SetGet(t *testing.T) {
	s := New(Config{TTL: time.Minute})

	s.Set("a", 42)

	v, ok := s.Get("a")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if v.(int) != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestStore_Miss(t *testing.T) {
	s := New(Config{})

	if _, ok := s.Get("missing"); ok {
		t.Error("expected cache miss for unknown key")
	}
}

func TestStore_Expiry(t *testing.T) {
	s := New(Config{TTL: time.Minute})

	s.SetWithTTL("a", "value", -time.Second)

	if _, ok := s.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestStore_Delete(t *testing.T) {
	s := New(Config{})

	s.Set("a", 1)
	s.Delete("a")

	if _, ok := s.Get("a"); ok {
		t.Error("expected miss after delete")
	}
}

func TestStore_Flush(t *testing.T) {
	s := New(Config{})

	s.Set("a", 1)
	s.Set("b", 2)
	s.Flush()

	if s.Len() != 0 {
		t.Errorf("expected empty store after flush, got %d entries", s.Len())
	}
}

func TestStore_OverwriteIsIdempotent(t *testing.T) {
	s := New(Config{TTL: time.Minute})

	s.Set("k", "first")
	s.Set("k", "second")

	v, ok := s.Get("k")
	if !ok || v.(string) != "second" {
		t.Errorf("expected latest write to win, got %v (hit=%v)", v, ok)
	}
}
