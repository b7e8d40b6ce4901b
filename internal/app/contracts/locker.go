package contracts

import (
	"context"
	"time"
)

// LockerService serializes webhook handling per session key. TryLock returns
// the lock value needed for an owned unlock.
type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, lockValue string) error
}
