package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hellosleep/internal/cache"
	"hellosleep/internal/catalog"
	"hellosleep/internal/model"
	"hellosleep/internal/provider"
)

const goodCompletion = "```json\n" + `{"recommendations":[{"id":"r1","title":"Anchor your mornings","priority":"high","confidence":0.9}],
"summary":{"primaryIssues":["irregular schedule"],"suggestedFocus":["wake time"],"urgency":"medium"},
"insights":{"patterns":[],"correlations":[],"riskFactors":[]}}` + "\n```"

type fakeProvider struct {
	name  string
	reply string
	err   error
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []model.PipelineEventType
}

func (r *recordingBroadcaster) BroadcastPipeline(ev model.PipelineEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev.Type)
}

func (r *recordingBroadcaster) Types() []model.PipelineEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PipelineEventType(nil), r.events...)
}

type fakeContentStore struct {
	mu      sync.Mutex
	records map[string]model.ContentRecord
	err     error
}

func (f *fakeContentStore) UpsertRecommendation(ctx context.Context, rec *model.ContentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records == nil {
		f.records = make(map[string]model.ContentRecord)
	}
	f.records[rec.PatternHash] = *rec
	return nil
}

func newPipeline(t *testing.T, providers ...provider.Provider) (*RecommendationService, *cache.PatternCache, *recordingBroadcaster) {
	t.Helper()
	patterns := cache.NewPatternCache(cache.NewMemoryStore(), 0.9, zap.NewNop())
	svc := NewRecommendationService(patterns, providers, newTagService(), newBookletService(), time.Second, DefaultTopFacts, zap.NewNop())
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, patterns, b
}

func irregularRequest() *model.RecommendationRequest {
	return &model.RecommendationRequest{
		Answers: model.AnswerSet{
			catalog.QSleepRegular: "no",
			catalog.QStatus:       "working",
			catalog.QExercise:     "never",
			catalog.QSunlight:     "little",
		},
		UserProfile: model.UserProfile{Age: 34, Status: "working"},
	}
}

func TestRecommendRejectsEmptyAnswers(t *testing.T) {
	p := &fakeProvider{name: "p", reply: goodCompletion}
	svc, _, _ := newPipeline(t, p)

	for _, req := range []*model.RecommendationRequest{nil, {}, {Answers: model.AnswerSet{"a": "  "}}} {
		_, err := svc.Recommend(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidAnswers)
	}
	assert.Zero(t, p.Calls(), "validation happens before any provider call")
}

func TestRecommendPaddedAnswersShareTagsAndPattern(t *testing.T) {
	svc, _, _ := newPipeline(t)
	ctx := context.Background()

	plain, err := svc.Recommend(ctx, &model.RecommendationRequest{Answers: model.AnswerSet{catalog.QSleepRegular: "no"}})
	require.NoError(t, err)

	padded, err := svc.Recommend(ctx, &model.RecommendationRequest{Answers: model.AnswerSet{catalog.QSleepRegular: " no"}})
	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, padded.Source)
	assert.Equal(t, plain.PatternHash, padded.PatternHash)
	assert.Equal(t, []string{catalog.TagIrregularSchedule}, padded.CalculatedTags)
	assert.Equal(t, plain.CalculatedTags, padded.CalculatedTags)
}

func TestRecommendProviderThenCache(t *testing.T) {
	p := &fakeProvider{name: "deepseek", reply: goodCompletion}
	svc, patterns, events := newPipeline(t, p)
	content := &fakeContentStore{}
	svc.SetContentStore(content)
	ctx := context.Background()

	first, err := svc.Recommend(ctx, irregularRequest())
	require.NoError(t, err)
	assert.Equal(t, model.SourceProvider, first.Source)
	assert.Equal(t, "deepseek", first.Provider)
	assert.Contains(t, first.CalculatedTags, catalog.TagIrregularSchedule)
	require.Len(t, first.Recommendations, 1)
	assert.Contains(t, first.Recommendations[0].RelatedContent, "life_rhythm_guide")

	second, err := svc.Recommend(ctx, irregularRequest())
	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, second.Source)
	assert.Equal(t, 1.0, second.Confidence)
	assert.Equal(t, first.PatternHash, second.PatternHash)
	assert.Equal(t, first.Recommendations[0].Title, second.Recommendations[0].Title)
	assert.Equal(t, 1, p.Calls(), "cache hit skips providers")

	entry, ok := patterns.Get(first.PatternHash)
	require.True(t, ok)
	assert.Equal(t, 2, entry.UsageCount)

	_, err = svc.Recommend(ctx, irregularRequest())
	require.NoError(t, err)
	entry, _ = patterns.Get(first.PatternHash)
	assert.Equal(t, 3, entry.UsageCount)

	assert.Equal(t, 3, content.records[first.PatternHash].UsageCount)

	assert.Equal(t, []model.PipelineEventType{
		model.EventCacheMiss, model.EventProviderSucceeded, model.EventPersisted,
		model.EventCacheHit, model.EventPersisted,
		model.EventCacheHit, model.EventPersisted,
	}, events.Types())
}

func TestRecommendProviderOrder(t *testing.T) {
	down := &fakeProvider{name: "gemini", err: errors.New("503")}
	garbage := &fakeProvider{name: "openai", reply: "I cannot comply"}
	good := &fakeProvider{name: "anthropic", reply: goodCompletion}
	unused := &fakeProvider{name: "spare", reply: goodCompletion}
	svc, _, events := newPipeline(t, down, garbage, good, unused)

	res, err := svc.Recommend(context.Background(), irregularRequest())
	require.NoError(t, err)
	assert.Equal(t, "anthropic", res.Provider)
	assert.Equal(t, 1, down.Calls())
	assert.Equal(t, 1, garbage.Calls())
	assert.Equal(t, 1, good.Calls())
	assert.Zero(t, unused.Calls())

	assert.Equal(t, []model.PipelineEventType{
		model.EventCacheMiss, model.EventProviderFailed, model.EventProviderFailed,
		model.EventProviderSucceeded, model.EventPersisted,
	}, events.Types())
}

func TestRecommendFallsBackWhenAllProvidersFail(t *testing.T) {
	slow := &fakeProvider{name: "slow", reply: goodCompletion, delay: time.Hour}
	broken := &fakeProvider{name: "broken", err: errors.New("connection refused")}
	svc, patterns, events := newPipeline(t, slow, broken)
	svc.timeout = 20 * time.Millisecond
	svc.SetContentStore(&fakeContentStore{err: errors.New("mongo down")})

	res, err := svc.Recommend(context.Background(), irregularRequest())
	require.NoError(t, err)
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Empty(t, res.Provider)
	require.NotEmpty(t, res.Recommendations)
	assert.NotEmpty(t, res.Summary.Urgency)
	assert.Contains(t, res.Summary.PrimaryIssues, "Irregular wake-up time")

	entry, ok := patterns.Get(res.PatternHash)
	require.True(t, ok, "fallback results are cached too")
	assert.Equal(t, model.SourceFallback, entry.Source)

	assert.Contains(t, events.Types(), model.EventFallbackUsed)
}

func TestRecommendWithoutProviders(t *testing.T) {
	svc, _, _ := newPipeline(t)
	res, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
		Answers: model.AnswerSet{catalog.QSleepRegular: "yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SourceFallback, res.Source)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "fallback_baseline", res.Recommendations[0].ID)
	assert.Equal(t, model.UrgencyLow, res.Summary.Urgency)
	assert.Equal(t, []string{}, res.CalculatedTags)
}

func TestFallbackIsTotal(t *testing.T) {
	booklets := newBookletService()

	var all []model.Tag
	var names []string
	for _, tg := range catalog.Tags() {
		all = append(all, tg)
		names = append(names, tg.Name)
	}
	resp := fallbackResponse(model.AnswerSet{}, all, TopFacts(names, DefaultTopFacts), booklets)
	assert.Len(t, resp.Recommendations, len(fallbackRules))
	assert.Equal(t, model.UrgencyHigh, resp.Summary.Urgency)
	assert.Len(t, resp.Summary.PrimaryIssues, 3)
	for _, r := range resp.Recommendations {
		assert.NotEmpty(t, r.RelatedContent, r.ID)
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}

	empty := fallbackResponse(nil, nil, nil, nil)
	require.Len(t, empty.Recommendations, 1)
	assert.Equal(t, model.UrgencyLow, empty.Summary.Urgency)
}

func TestEveryTagHasFallbackRule(t *testing.T) {
	covered := make(map[string]bool)
	for _, r := range fallbackRules {
		covered[r.tag] = true
	}
	for _, tg := range catalog.Tags() {
		assert.True(t, covered[tg.Name], tg.Name)
	}
}

func TestSimilarAnswersHitCache(t *testing.T) {
	p := &fakeProvider{name: "p", reply: goodCompletion}
	svc, _, _ := newPipeline(t, p)
	ctx := context.Background()

	base := model.AnswerSet{}
	for i, q := range catalog.Questions() {
		if i == 10 {
			break
		}
		base[q.ID] = "x"
	}
	first, err := svc.Recommend(ctx, &model.RecommendationRequest{Answers: base})
	require.NoError(t, err)

	// 9 of 10 pairs match
	near := base.With(catalog.Questions()[0].ID, "y")
	second, err := svc.Recommend(ctx, &model.RecommendationRequest{Answers: near})
	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, second.Source)
	assert.InDelta(t, 0.9, second.Confidence, 1e-9)
	assert.Equal(t, first.PatternHash, second.PatternHash)
	assert.Equal(t, 1, p.Calls())
}

func TestPromptCarriesFacts(t *testing.T) {
	req := irregularRequest()
	tags := newTagService()
	calculated := tags.Evaluate(req.Answers)
	var active []model.Tag
	for _, n := range calculated {
		tg, _ := tags.Tag(n)
		active = append(active, tg)
	}
	facts := TopFacts(calculated, DefaultTopFacts)
	prompt := buildRecommendationPrompt(req, active, facts)

	assert.Contains(t, prompt, "Irregular wake-up time")
	assert.Contains(t, prompt, facts[0].Text)
	assert.Contains(t, prompt, "- sleepregular: no")
	assert.Contains(t, prompt, "age 34")
}
