package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"hellosleep/internal/model"
)

var ErrPatternNotFound = errors.New("pattern not found")

// PatternCache is the process-wide answer-pattern cache.
//
// Every method is atomic with respect to the others, but a Lookup followed by a
// Put after a slow provider call is not: two concurrent requests with the same
// novel pattern both miss, both generate, and the later Put replaces the earlier
// one. Callers accept last-write-wins for a given hash.
type PatternCache struct {
	mu           sync.RWMutex
	entries      map[string]model.PatternEntry
	store        Store
	hitThreshold float64
	log          *zap.Logger
	now          func() time.Time
}

// NewPatternCache creates an empty cache; call Load to fill it from the store.
func NewPatternCache(store Store, hitThreshold float64, log *zap.Logger) *PatternCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &PatternCache{
		entries:      make(map[string]model.PatternEntry),
		store:        store,
		hitThreshold: hitThreshold,
		log:          log,
		now:          time.Now,
	}
}

// Load replaces the in-memory contents with what the store holds.
func (c *PatternCache) Load(ctx context.Context) error {
	entries, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s pattern store: %w", c.store.Name(), err)
	}
	if entries == nil {
		entries = make(map[string]model.PatternEntry)
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	c.log.Info("pattern cache loaded",
		zap.String("backend", c.store.Name()),
		zap.Int("entries", len(entries)))
	return nil
}

// Lookup returns the exact entry for answers (similarity 1.0) or, failing that,
// the most similar entry at or above the hit threshold. It never mutates.
func (c *PatternCache) Lookup(answers model.AnswerSet) (*model.PatternMatch, bool) {
	hash := Hash(answers)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[hash]; ok {
		return &model.PatternMatch{Entry: copyEntry(e), Similarity: 1.0, Exact: true}, true
	}

	best, ok := c.best(answers)
	if !ok || best.Similarity < c.hitThreshold {
		return nil, false
	}
	return &best, true
}

// FindSimilar lists entries with similarity >= min, most similar first.
// Ties are broken by hash so the order is stable.
func (c *PatternCache) FindSimilar(answers model.AnswerSet, min float64) []model.PatternMatch {
	hash := Hash(answers)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []model.PatternMatch
	for h, e := range c.entries {
		sim := Similarity(answers, e.Answers)
		if h == hash {
			sim = 1.0
		}
		if sim < min {
			continue
		}
		out = append(out, model.PatternMatch{Entry: copyEntry(e), Similarity: sim, Exact: h == hash})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Entry.Hash < out[j].Entry.Hash
	})
	return out
}

// best expects the read lock to be held.
func (c *PatternCache) best(answers model.AnswerSet) (model.PatternMatch, bool) {
	var (
		match model.PatternMatch
		found bool
	)
	for h, e := range c.entries {
		sim := Similarity(answers, e.Answers)
		if !found || sim > match.Similarity || (sim == match.Similarity && h < match.Entry.Hash) {
			match = model.PatternMatch{Entry: e, Similarity: sim}
			found = true
		}
	}
	if found {
		match.Entry = copyEntry(match.Entry)
	}
	return match, found
}

// Touch records one reuse of the entry: usage +1 and a fresh LastUsed.
// The in-memory update stands even if the store write fails.
func (c *PatternCache) Touch(ctx context.Context, hash string) (model.PatternEntry, error) {
	c.mu.Lock()
	e, ok := c.entries[hash]
	if !ok {
		c.mu.Unlock()
		return model.PatternEntry{}, fmt.Errorf("%w: %s", ErrPatternNotFound, hash)
	}
	now := c.now()
	e.UsageCount++
	e.LastUsed = now
	e.UpdatedAt = now
	c.entries[hash] = e
	c.mu.Unlock()

	if err := c.store.Put(ctx, e); err != nil {
		return copyEntry(e), fmt.Errorf("persist touch %s: %w", hash, err)
	}
	return copyEntry(e), nil
}

// Put stores a freshly generated result under the hash of its answers,
// replacing any entry already there.
func (c *PatternCache) Put(ctx context.Context, entry model.PatternEntry) (model.PatternEntry, error) {
	now := c.now()
	entry.Answers = Normalize(entry.Answers)
	entry.Hash = Hash(entry.Answers)
	entry.Confidence = 1.0
	entry.UsageCount = 1
	entry.LastUsed = now
	entry.CreatedAt = now
	entry.UpdatedAt = now

	c.mu.Lock()
	if _, exists := c.entries[entry.Hash]; exists {
		c.log.Debug("pattern overwritten", zap.String("hash", entry.Hash))
	}
	c.entries[entry.Hash] = entry
	c.mu.Unlock()

	if err := c.store.Put(ctx, entry); err != nil {
		return copyEntry(entry), fmt.Errorf("persist pattern %s: %w", entry.Hash, err)
	}
	return copyEntry(entry), nil
}

// Cleanup removes entries not used for longer than maxAge AND used fewer than
// minUsage times. It returns the number removed.
func (c *PatternCache) Cleanup(ctx context.Context, maxAge time.Duration, minUsage int) (int, error) {
	cutoff := c.now().Add(-maxAge)

	c.mu.Lock()
	var removed []string
	for h, e := range c.entries {
		if e.LastUsed.Before(cutoff) && e.UsageCount < minUsage {
			removed = append(removed, h)
			delete(c.entries, h)
		}
	}
	c.mu.Unlock()

	if len(removed) == 0 {
		return 0, nil
	}
	sort.Strings(removed)
	if err := c.store.Delete(ctx, removed); err != nil {
		return len(removed), fmt.Errorf("persist cleanup: %w", err)
	}
	c.log.Info("pattern cache cleaned", zap.Int("removed", len(removed)))
	return len(removed), nil
}

// Get returns a copy of the entry stored under hash.
func (c *PatternCache) Get(hash string) (model.PatternEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[hash]
	if !ok {
		return model.PatternEntry{}, false
	}
	return copyEntry(e), true
}

func (c *PatternCache) Stats() model.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := model.CacheStats{Entries: len(c.entries), Backend: c.store.Name()}
	for _, e := range c.entries {
		stats.TotalUsage += e.UsageCount
		if stats.Oldest.IsZero() || e.CreatedAt.Before(stats.Oldest) {
			stats.Oldest = e.CreatedAt
		}
		if e.CreatedAt.After(stats.Newest) {
			stats.Newest = e.CreatedAt
		}
	}
	return stats
}

// HitThreshold is the minimum similarity Lookup accepts.
func (c *PatternCache) HitThreshold() float64 {
	return c.hitThreshold
}

func copyEntry(e model.PatternEntry) model.PatternEntry {
	e.Answers = e.Answers.Clone()
	return e
}
