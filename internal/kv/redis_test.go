package kv

import (
	"context"
	"testing"
	"time"
)

func TestStore_Disabled(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Available() {
		t.Fatalf("expected disabled store")
	}

	ctx := context.Background()
	ok, n, err := s.AllowRate(ctx, "k", 1, time.Minute)
	if !ok || n != 0 || err != nil {
		t.Fatalf("disabled store must allow, got %v %d %v", ok, n, err)
	}
	if err := s.SetLock(ctx, "k", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	locked, err := s.IsLocked(ctx, "k")
	if locked || err != nil {
		t.Fatalf("disabled store must not lock, got %v %v", locked, err)
	}
	s.Del(ctx, "k")
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("://nope"); err == nil {
		t.Fatalf("expected error for invalid url")
	}
}

func TestStore_NilReceiver(t *testing.T) {
	var s *Store
	if s.Available() {
		t.Fatalf("nil store must be unavailable")
	}
}
