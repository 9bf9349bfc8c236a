package model

import "time"

// PipelineEventType names a recommendation pipeline transition
type PipelineEventType string

const (
	EventCacheHit          PipelineEventType = "cache_hit"
	EventCacheMiss         PipelineEventType = "cache_miss"
	EventProviderFailed    PipelineEventType = "provider_failed"
	EventProviderSucceeded PipelineEventType = "provider_succeeded"
	EventFallbackUsed      PipelineEventType = "fallback_used"
	EventPersisted         PipelineEventType = "persisted"
)

// PipelineEvent is streamed to operators watching the pipeline
type PipelineEvent struct {
	Type        PipelineEventType `json:"type"`
	RequestID   string            `json:"requestId"`
	PatternHash string            `json:"patternHash"`
	Provider    string            `json:"provider,omitempty"`
	Similarity  float64           `json:"similarity,omitempty"`
	Error       string            `json:"error,omitempty"`
	At          time.Time         `json:"at"`
}
