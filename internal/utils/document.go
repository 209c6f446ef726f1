package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching

	"github.com/redis/go-redis/v9" // Redis client
)

// DocumentReader is the read side of a document store handle
type DocumentReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// GetDocument retrieves a JSON document and unmarshals it into dest
func GetDocument(ctx context.Context, rdb DocumentReader, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// GetDocuments fetches several documents in one round trip, skipping
// keys that no longer exist. decode is called once per found document.
func GetDocuments(ctx context.Context, rdb DocumentReader, keys []string, decode func(raw []byte) error) error {
	if len(keys) == 0 {
		return nil
	}
	vals, err := rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // Missing key comes back as nil
		}
		if err := decode([]byte(s)); err != nil {
			return err
		}
	}
	return nil
}

// PutDocument marshals value to JSON and queues a SET on the pipeline
func PutDocument(ctx context.Context, pipe redis.Pipeliner, key string, value any) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return pipe.Set(ctx, key, b, 0).Err()
}
