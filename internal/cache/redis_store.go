package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hellosleep/internal/model"
)

// PatternsKey is the redis hash holding every entry, field = pattern hash.
const PatternsKey = "hellosleep:patterns"

type redisStore struct {
	client *redis.Client
	owned  bool
}

// NewRedisStore stores entries as JSON values in one hash. When owned is true
// Close also closes the client.
func NewRedisStore(client *redis.Client, owned bool) Store {
	return &redisStore{client: client, owned: owned}
}

func (s *redisStore) Name() string { return "redis" }

func (s *redisStore) Load(ctx context.Context) (map[string]model.PatternEntry, error) {
	raw, err := s.client.HGetAll(ctx, PatternsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.PatternEntry, len(raw))
	for hash, data := range raw {
		var entry model.PatternEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("decode pattern %s: %w", hash, err)
		}
		out[hash] = entry
	}
	return out, nil
}

func (s *redisStore) Put(ctx context.Context, entry model.PatternEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, PatternsKey, entry.Hash, data).Err()
}

func (s *redisStore) Delete(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return s.client.HDel(ctx, PatternsKey, hashes...).Err()
}

func (s *redisStore) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}
