// Package store is the durable key-value cache shared by all invocations:
// booked markers ("booked:<account>:<date>-<slot>" = "1") and the daily
// workout text ("wod:<date>"). It is the only cross-invocation state.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports an absent key. Absence is an expected condition, not
// a store failure.
var ErrNotFound = errors.New("store: key not found")

// Store is a key-value map with per-key TTL. A zero TTL means no expiry.
//
// Get/Put are not atomic as a pair; PutIfAbsent is the conditional
// primitive for callers that need stricter once-only semantics.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// PutIfAbsent writes only when the key does not exist and reports
	// whether the write happened.
	PutIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}
