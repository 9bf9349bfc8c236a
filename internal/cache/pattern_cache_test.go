package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellosleep/internal/model"
)

func baseAnswers() model.AnswerSet {
	return model.AnswerSet{
		"a": "1", "b": "2", "c": "3", "d": "4", "e": "5",
		"f": "6", "g": "7", "h": "8", "i": "9", "j": "10",
	}
}

func entryFor(answers model.AnswerSet, title string) model.PatternEntry {
	return model.PatternEntry{
		Answers: answers,
		Response: model.RecommendationResponse{
			Recommendations: []model.Recommendation{{ID: "r1", Title: title}},
		},
		Source: model.SourceProvider,
	}
}

func TestHashNormalizes(t *testing.T) {
	a := model.AnswerSet{"x": "1", "y": " 2 ", "z": ""}
	b := model.AnswerSet{"y": "2", "x": "1"}
	assert.Equal(t, Hash(a), Hash(b))
	assert.Len(t, Hash(a), 64)
	assert.NotEqual(t, Hash(a), Hash(model.AnswerSet{"x": "1", "y": "3"}))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b model.AnswerSet
		want float64
	}{
		{"identical", model.AnswerSet{"a": "1", "b": "2"}, model.AnswerSet{"a": "1", "b": "2"}, 1},
		{"one differs", model.AnswerSet{"a": "1", "b": "2"}, model.AnswerSet{"a": "1", "b": "3"}, 0.5},
		{"disjoint keys count in union", model.AnswerSet{"a": "1"}, model.AnswerSet{"b": "1"}, 0},
		{"extra key", model.AnswerSet{"a": "1", "b": "2", "c": "3"}, model.AnswerSet{"a": "1", "b": "2"}, 2.0 / 3.0},
		{"empty", model.AnswerSet{}, model.AnswerSet{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Similarity(tt.b, tt.a), 1e-9)
		})
	}
}

func TestLookupExactThenTouch(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(NewMemoryStore(), 0.9, nil)

	_, ok := c.Lookup(baseAnswers())
	assert.False(t, ok)

	stored, err := c.Put(ctx, entryFor(baseAnswers(), "first"))
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsageCount)
	assert.Equal(t, 1.0, stored.Confidence)

	match, ok := c.Lookup(baseAnswers())
	require.True(t, ok)
	assert.True(t, match.Exact)
	assert.Equal(t, 1.0, match.Similarity)
	assert.Equal(t, "first", match.Entry.Response.Recommendations[0].Title)

	// Lookup alone never counts as a use
	e, _ := c.Get(stored.Hash)
	assert.Equal(t, 1, e.UsageCount)

	touched, err := c.Touch(ctx, stored.Hash)
	require.NoError(t, err)
	assert.Equal(t, 2, touched.UsageCount)

	touched, err = c.Touch(ctx, stored.Hash)
	require.NoError(t, err)
	assert.Equal(t, 3, touched.UsageCount)
}

func TestLookupSimilarityThreshold(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(NewMemoryStore(), 0.9, nil)
	_, err := c.Put(ctx, entryFor(baseAnswers(), "stored"))
	require.NoError(t, err)

	// 10 shared keys, one value differs: 9 of 10 match
	near := baseAnswers().With("j", "11")
	match, ok := c.Lookup(near)
	require.True(t, ok)
	assert.False(t, match.Exact)
	assert.InDelta(t, 0.9, match.Similarity, 1e-9)

	// two differ: 0.8 is below the hit threshold but visible as a near match
	far := near.With("i", "0")
	_, ok = c.Lookup(far)
	assert.False(t, ok)

	similar := c.FindSimilar(far, 0.8)
	require.Len(t, similar, 1)
	assert.InDelta(t, 0.8, similar[0].Similarity, 1e-9)
	assert.Empty(t, c.FindSimilar(far, 0.85))
}

func TestLookupReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(NewMemoryStore(), 0.9, nil)
	_, err := c.Put(ctx, entryFor(baseAnswers(), "stored"))
	require.NoError(t, err)

	match, ok := c.Lookup(baseAnswers())
	require.True(t, ok)
	match.Entry.Answers["a"] = "mutated"

	again, ok := c.Lookup(baseAnswers())
	require.True(t, ok)
	assert.Equal(t, "1", again.Entry.Answers["a"])
}

func TestPutOverwritesSameHash(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(NewMemoryStore(), 0.9, nil)
	first, err := c.Put(ctx, entryFor(baseAnswers(), "first"))
	require.NoError(t, err)
	_, err = c.Touch(ctx, first.Hash)
	require.NoError(t, err)

	second, err := c.Put(ctx, entryFor(baseAnswers(), "second"))
	require.NoError(t, err)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, 1, c.Stats().Entries)

	e, _ := c.Get(first.Hash)
	assert.Equal(t, "second", e.Response.Recommendations[0].Title)
	assert.Equal(t, 1, e.UsageCount)
}

func TestTouchUnknown(t *testing.T) {
	c := NewPatternCache(NewMemoryStore(), 0.9, nil)
	_, err := c.Touch(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrPatternNotFound))
}

func TestCleanupNeedsAgeAndLowUsage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewPatternCache(store, 0.9, nil)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	stale, err := c.Put(ctx, entryFor(model.AnswerSet{"a": "stale"}, "stale"))
	require.NoError(t, err)
	popular, err := c.Put(ctx, entryFor(model.AnswerSet{"a": "popular"}, "popular"))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = c.Touch(ctx, popular.Hash)
		require.NoError(t, err)
	}

	c.now = func() time.Time { return start.Add(48 * time.Hour) }
	fresh, err := c.Put(ctx, entryFor(model.AnswerSet{"a": "fresh"}, "fresh"))
	require.NoError(t, err)

	removed, err := c.Cleanup(ctx, 24*time.Hour, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := c.Get(stale.Hash)
	assert.False(t, ok)
	_, ok = c.Get(popular.Hash)
	assert.True(t, ok, "old but used often")
	_, ok = c.Get(fresh.Hash)
	assert.True(t, ok, "rarely used but recent")

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestLoadRestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	first := NewPatternCache(store, 0.9, nil)
	_, err := first.Put(ctx, entryFor(baseAnswers(), "kept"))
	require.NoError(t, err)

	second := NewPatternCache(store, 0.9, nil)
	require.NoError(t, second.Load(ctx))
	match, ok := second.Lookup(baseAnswers())
	require.True(t, ok)
	assert.Equal(t, "kept", match.Entry.Response.Recommendations[0].Title)

	stats := second.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, "memory", stats.Backend)
}

type failingStore struct{ Store }

func (failingStore) Put(context.Context, model.PatternEntry) error { return errors.New("disk full") }

func TestStoreFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(failingStore{NewMemoryStore()}, 0.9, nil)

	stored, err := c.Put(ctx, entryFor(baseAnswers(), "x"))
	assert.Error(t, err)
	_, ok := c.Get(stored.Hash)
	assert.True(t, ok)
}

type emptyLoadStore struct{ Store }

func (emptyLoadStore) Load(context.Context) (map[string]model.PatternEntry, error) { return nil, nil }

func TestLoadToleratesNilMap(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(emptyLoadStore{NewMemoryStore()}, 0.9, nil)
	require.NoError(t, c.Load(ctx))

	stored, err := c.Put(ctx, entryFor(baseAnswers(), "x"))
	require.NoError(t, err)
	_, ok := c.Get(stored.Hash)
	assert.True(t, ok)
}

func TestConcurrentTouchCountsEveryReuse(t *testing.T) {
	ctx := context.Background()
	c := NewPatternCache(NewMemoryStore(), 0.9, nil)
	stored, err := c.Put(ctx, entryFor(baseAnswers(), "x"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Touch(ctx, stored.Hash)
		}()
	}
	wg.Wait()

	e, _ := c.Get(stored.Hash)
	assert.Equal(t, 51, e.UsageCount)
}
