// Package claim provides short-lived exclusive claims keyed by string. A claim
// expires on its own after its TTL so a crashed holder cannot keep it forever.
package claim

import (
	"context"
	"time"
)

// Store grants at most one live claim per key.
type Store interface {
	// Claim returns false when key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release drops the claim. Releasing a free key is not an error.
	Release(ctx context.Context, key string) error
}
