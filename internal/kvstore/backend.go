package kvstore

import (
	"context"
	"time"
)

// Envelope wraps every stored value with its write time and optional TTL.
// TTL is persisted in milliseconds; zero means the value never expires.
type Envelope struct {
	Value     []byte    `json:"value"`
	StoredAt  time.Time `json:"storedAt"`
	TTLMillis int64     `json:"ttl,omitempty"`
}

// Expired reports whether the envelope's TTL has elapsed at now.
func (e Envelope) Expired(now time.Time) bool {
	if e.TTLMillis <= 0 {
		return false
	}
	return now.Sub(e.StoredAt) > time.Duration(e.TTLMillis)*time.Millisecond
}

// Backend is the capability-uniform contract every storage backend implements.
// Implementations do not share code; each handles envelope wrapping and
// expiry-delete-on-read itself.
type Backend interface {
	// Name identifies the backend ("memory", "file", "sqlite").
	Name() string
	// Available probes whether the backend can currently serve reads and writes.
	Available() bool
	// Get returns the unwrapped value for key. An expired entry reads as
	// absent and is removed.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set wraps value with the current timestamp and optional ttl and stores it.
	// A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Remove deletes the entry for key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
