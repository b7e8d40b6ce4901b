package contracts

import "context"

// AttemptLimiter tracks failed attempts per key inside a fixed window.
// Allow reports whether the key is still under the limit; RecordFailure
// bumps the counter and Reset clears it on success.
type AttemptLimiter interface {
	Allow(ctx context.Context, group string, key string) (bool, error)
	RecordFailure(ctx context.Context, group string, key string) error
	Reset(ctx context.Context, group string, key string) error
}
