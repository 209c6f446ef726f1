package store

import (
	"context" // Context for cancellation
	"fmt"     // Error formatting

	"hospital_insights/internal/domain" // Importing domain models
	"hospital_insights/internal/utils"  // Document helpers

	"github.com/redis/go-redis/v9" // Redis client
)

// Handle is the subset of the Redis command set the document stores use.
// Both *redis.Client and a request-scoped *redis.Conn satisfy it.
type Handle interface {
	utils.DocumentReader
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	ZRevRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// unavailable wraps a document store failure so callers can degrade.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrDataUnavailable, err)
}
