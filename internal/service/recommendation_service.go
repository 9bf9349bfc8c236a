package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hellosleep/internal/cache"
	"hellosleep/internal/catalog"
	"hellosleep/internal/model"
	"hellosleep/internal/provider"
)

var ErrInvalidAnswers = errors.New("answers must contain at least one non-empty value")

// ContentStore mirrors resolved recommendations as booklet-shaped records
type ContentStore interface {
	UpsertRecommendation(ctx context.Context, rec *model.ContentRecord) error
}

// RecommendationService runs the recommendation pipeline: pattern cache, then
// each provider in order, then the deterministic fallback. Anything after input
// validation degrades instead of failing.
type RecommendationService struct {
	patterns    *cache.PatternCache
	providers   []provider.Provider
	tags        *TagService
	booklets    *BookletService
	content     ContentStore
	broadcaster Broadcaster
	timeout     time.Duration
	topFacts    int
	log         *zap.Logger
	now         func() time.Time
}

// NewRecommendationService wires the pipeline. providers may be empty, in which
// case every miss goes straight to the fallback.
func NewRecommendationService(
	patterns *cache.PatternCache,
	providers []provider.Provider,
	tags *TagService,
	booklets *BookletService,
	timeout time.Duration,
	topFacts int,
	log *zap.Logger,
) *RecommendationService {
	if topFacts <= 0 {
		topFacts = DefaultTopFacts
	}
	return &RecommendationService{
		patterns:  patterns,
		providers: providers,
		tags:      tags,
		booklets:  booklets,
		timeout:   timeout,
		topFacts:  topFacts,
		log:       log,
		now:       time.Now,
	}
}

// SetContentStore enables the best-effort content mirror
func (s *RecommendationService) SetContentStore(cs ContentStore) {
	s.content = cs
}

// SetBroadcaster sets the pipeline event sink
func (s *RecommendationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Recommend resolves a request. Only ErrInvalidAnswers is ever returned.
func (s *RecommendationService) Recommend(ctx context.Context, req *model.RecommendationRequest) (*model.RecommendationResult, error) {
	if req == nil || len(cache.Normalize(req.Answers)) == 0 {
		return nil, ErrInvalidAnswers
	}
	answers := req.Answers.Normalized()
	requestID := uuid.NewString()
	calculated := s.tags.Evaluate(answers)

	if match, ok := s.patterns.Lookup(answers); ok {
		return s.fromCache(ctx, requestID, match, calculated), nil
	}

	hash := cache.Hash(answers)
	s.publish(model.PipelineEvent{Type: model.EventCacheMiss, RequestID: requestID, PatternHash: hash})

	active := s.activeTags(calculated)
	facts := TopFacts(calculated, s.topFacts)

	resp, providerName := s.callProviders(ctx, requestID, hash, req, active, facts)
	source := model.SourceProvider
	if resp == nil {
		resp = fallbackResponse(answers, active, facts, s.booklets)
		source = model.SourceFallback
		providerName = ""
		s.publish(model.PipelineEvent{Type: model.EventFallbackUsed, RequestID: requestID, PatternHash: hash})
	}
	s.attachContent(resp, calculated)

	entry := model.PatternEntry{
		Answers:     answers,
		UserProfile: req.UserProfile,
		Response:    *resp,
		Source:      source,
		Provider:    providerName,
	}
	stored, err := s.patterns.Put(ctx, entry)
	if err != nil {
		s.log.Error("pattern cache write failed", zap.String("hash", hash), zap.Error(err))
	}
	s.mirror(ctx, &stored, calculated)
	s.publish(model.PipelineEvent{Type: model.EventPersisted, RequestID: requestID, PatternHash: stored.Hash, Provider: providerName})

	return &model.RecommendationResult{
		RecommendationResponse: *resp,
		Source:                 source,
		Provider:               providerName,
		Confidence:             meanConfidence(resp),
		PatternHash:            stored.Hash,
		CalculatedTags:         nonNil(calculated),
		GeneratedAt:            s.now(),
	}, nil
}

func (s *RecommendationService) fromCache(ctx context.Context, requestID string, match *model.PatternMatch, calculated []string) *model.RecommendationResult {
	s.publish(model.PipelineEvent{
		Type:        model.EventCacheHit,
		RequestID:   requestID,
		PatternHash: match.Entry.Hash,
		Similarity:  match.Similarity,
	})

	entry := match.Entry
	touched, err := s.patterns.Touch(ctx, entry.Hash)
	switch {
	case errors.Is(err, cache.ErrPatternNotFound):
		// removed by a concurrent cleanup; the copy we hold is still a valid answer
		s.log.Warn("cached pattern vanished before touch", zap.String("hash", entry.Hash))
	case err != nil:
		// in-memory usage was still bumped
		s.log.Error("pattern cache touch failed", zap.String("hash", entry.Hash), zap.Error(err))
		entry = touched
	default:
		entry = touched
	}
	s.mirror(ctx, &entry, calculated)
	s.publish(model.PipelineEvent{Type: model.EventPersisted, RequestID: requestID, PatternHash: entry.Hash})

	return &model.RecommendationResult{
		RecommendationResponse: entry.Response,
		Source:                 model.SourceCache,
		Provider:               entry.Provider,
		Confidence:             match.Similarity,
		PatternHash:            entry.Hash,
		CalculatedTags:         nonNil(calculated),
		GeneratedAt:            s.now(),
	}
}

// callProviders tries each provider in order and returns the first parsable
// response, or nil when all fail.
func (s *RecommendationService) callProviders(ctx context.Context, requestID, hash string, req *model.RecommendationRequest, active []model.Tag, facts []catalog.Fact) (*model.RecommendationResponse, string) {
	if len(s.providers) == 0 {
		return nil, ""
	}
	prompt := buildRecommendationPrompt(req, active, facts)

	for _, p := range s.providers {
		start := time.Now()
		resp, err := s.attempt(ctx, p, prompt)
		if err != nil {
			s.log.Warn("provider failed",
				zap.String("provider", p.Name()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			s.publish(model.PipelineEvent{
				Type: model.EventProviderFailed, RequestID: requestID, PatternHash: hash,
				Provider: p.Name(), Error: err.Error(),
			})
			continue
		}
		s.log.Info("provider succeeded",
			zap.String("provider", p.Name()),
			zap.Duration("elapsed", time.Since(start)))
		s.publish(model.PipelineEvent{Type: model.EventProviderSucceeded, RequestID: requestID, PatternHash: hash, Provider: p.Name()})
		return resp, p.Name()
	}
	return nil, ""
}

func (s *RecommendationService) attempt(ctx context.Context, p provider.Provider, prompt string) (*model.RecommendationResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := p.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return provider.ParseRecommendation(text)
}

// attachContent links every recommendation without related content to the
// booklets matched for the request.
func (s *RecommendationService) attachContent(resp *model.RecommendationResponse, calculated []string) {
	ids := s.booklets.IDs(calculated)
	if len(ids) == 0 {
		return
	}
	for i := range resp.Recommendations {
		if len(resp.Recommendations[i].RelatedContent) == 0 {
			resp.Recommendations[i].RelatedContent = ids
		}
	}
}

func (s *RecommendationService) mirror(ctx context.Context, e *model.PatternEntry, calculated []string) {
	if s.content == nil || e.Hash == "" {
		return
	}
	title := "Sleep recommendations"
	if len(e.Response.Recommendations) > 0 {
		title = e.Response.Recommendations[0].Title
	}
	rec := &model.ContentRecord{
		PatternHash: e.Hash,
		Title:       title,
		Tags:        nonNil(calculated),
		Source:      e.Source,
		Provider:    e.Provider,
		Response:    e.Response,
		UsageCount:  e.UsageCount,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if err := s.content.UpsertRecommendation(ctx, rec); err != nil {
		s.log.Warn("content store mirror failed", zap.String("hash", e.Hash), zap.Error(err))
	}
}

func (s *RecommendationService) activeTags(names []string) []model.Tag {
	out := make([]model.Tag, 0, len(names))
	for _, n := range names {
		if t, ok := s.tags.Tag(n); ok {
			out = append(out, t)
		}
	}
	return out
}

func (s *RecommendationService) publish(ev model.PipelineEvent) {
	if s.broadcaster == nil {
		return
	}
	ev.At = s.now()
	s.broadcaster.BroadcastPipeline(ev)
}

func meanConfidence(resp *model.RecommendationResponse) float64 {
	if len(resp.Recommendations) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range resp.Recommendations {
		sum += r.Confidence
	}
	return sum / float64(len(resp.Recommendations))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
