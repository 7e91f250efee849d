package sequence

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/SscSPs/agency_books/internal/apperrors"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
)

// KeyPrefix namespaces the counters inside a shared Redis database.
const KeyPrefix = "agency_books:seq:"

// EnsureFloorScript raises KEYS[1] to ARGV[1] if it is lower, and returns the resulting value.
const EnsureFloorScript = `
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if current < floor then
  redis.call('SET', KEYS[1], floor)
  return floor
end
return current
`

// RedisAllocator hands out voucher and code numbers with INCR, so several writers sharing
// one Redis never receive the same number.
type RedisAllocator struct {
	client *redis.Client
}

func NewRedisAllocator(client *redis.Client) *RedisAllocator {
	return &RedisAllocator{client: client}
}

var _ portsrepo.SequenceAllocator = (*RedisAllocator)(nil)

// NextValue increments and returns the counter for key.
func (a *RedisAllocator) NextValue(ctx context.Context, key string) (int64, error) {
	n, err := a.client.Incr(ctx, KeyPrefix+key).Result()
	if err != nil {
		return 0, apperrors.NewAppError(503, fmt.Sprintf("failed to increment sequence %s", key), err)
	}
	return n, nil
}

// EnsureFloor raises the counter for key to floor. It never lowers a counter.
func (a *RedisAllocator) EnsureFloor(ctx context.Context, key string, floor int64) error {
	if floor <= 0 {
		return nil
	}
	if err := a.client.Eval(ctx, EnsureFloorScript, []string{KeyPrefix + key}, floor).Err(); err != nil {
		return apperrors.NewAppError(503, fmt.Sprintf("failed to raise sequence %s", key), err)
	}
	return nil
}
