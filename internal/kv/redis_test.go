package kv

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Runs against a real Redis when REDIS_ADDR is set.
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	s, err := NewRedisStore(addr)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	key := "@RocketShoes:cart:test-" + uuid.NewString()
	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("unset key: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok || string(v) != "[]" {
		t.Fatalf("get: v=%s ok=%v err=%v", v, ok, err)
	}
}

func TestRedisStore_StalledServerHitsQueryTimeout(t *testing.T) {
	// The listener completes handshakes but never answers a command.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	s, err := NewRedisStore(ln.Addr().String())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	limit := queryTimeout + time.Second
	for name, call := range map[string]func() error{
		"get": func() error {
			_, _, err := s.Get(context.Background(), "@RocketShoes:cart")
			return err
		},
		"set": func() error {
			return s.Set(context.Background(), "@RocketShoes:cart", []byte(`[]`))
		},
	} {
		start := time.Now()
		err := call()
		if err == nil {
			t.Fatalf("%s: expected error from stalled server", name)
		}
		if took := time.Since(start); took > limit {
			t.Fatalf("%s: took %v, want under %v", name, took, limit)
		}
	}
}
