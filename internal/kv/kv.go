// Package kv holds the key-value backends the cart blob is persisted to.
package kv

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyKey = errors.New("kv: empty key")

// Store is a flat key-value store of opaque blobs. Get reports ok=false for
// a key that was never set.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
