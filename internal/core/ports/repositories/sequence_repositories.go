package repositories

import "context"

// SequenceAllocator hands out monotonic numbers per key atomically across writers.
type SequenceAllocator interface {
	// NextValue reserves and returns the next number for key.
	NextValue(ctx context.Context, key string) (int64, error)

	// EnsureFloor raises the counter for key to at least floor without ever lowering it.
	EnsureFloor(ctx context.Context, key string, floor int64) error
}
