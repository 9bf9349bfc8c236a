package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"hellosleep/internal/config"
	"hellosleep/internal/model"
)

// Store persists pattern entries. The cache writes through after every mutation
// and reads everything back once at startup.
type Store interface {
	Name() string
	Load(ctx context.Context) (map[string]model.PatternEntry, error)
	Put(ctx context.Context, entry model.PatternEntry) error
	Delete(ctx context.Context, hashes []string) error
	Close() error
}

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.CacheConfig, rcfg config.RedisConfig) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.Path)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     rcfg.Addr,
			Password: rcfg.Password,
			DB:       rcfg.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("ping redis %s: %w", rcfg.Addr, err)
		}
		return NewRedisStore(rdb, true), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]model.PatternEntry
}

// NewMemoryStore keeps entries for the life of the process only.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]model.PatternEntry)}
}

func (s *memoryStore) Name() string { return "memory" }

func (s *memoryStore) Load(ctx context.Context) (map[string]model.PatternEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.PatternEntry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *memoryStore) Put(ctx context.Context, entry model.PatternEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Hash] = entry
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, hashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range hashes {
		delete(s.entries, h)
	}
	return nil
}

func (s *memoryStore) Close() error { return nil }
