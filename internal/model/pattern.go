package model

import "time"

// PatternEntry is a cached recommendation keyed by the hash of normalized answers
type PatternEntry struct {
	Hash        string                 `json:"hash" bson:"hash"`
	Answers     AnswerSet              `json:"answers" bson:"answers"`
	UserProfile UserProfile            `json:"userProfile" bson:"userProfile"`
	Response    RecommendationResponse `json:"response" bson:"response"`
	Source      ResultSource           `json:"source" bson:"source"`
	Provider    string                 `json:"provider,omitempty" bson:"provider,omitempty"`
	Confidence  float64                `json:"confidence" bson:"confidence"`
	UsageCount  int                    `json:"usageCount" bson:"usageCount"`
	LastUsed    time.Time              `json:"lastUsed" bson:"lastUsed"`
	CreatedAt   time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// PatternMatch is a cache lookup result
type PatternMatch struct {
	Entry      PatternEntry `json:"entry"`
	Similarity float64      `json:"similarity"`
	Exact      bool         `json:"exact"`
}

// CacheStats summarizes the pattern cache
type CacheStats struct {
	Entries    int       `json:"entries"`
	TotalUsage int       `json:"totalUsage"`
	Oldest     time.Time `json:"oldest,omitempty"`
	Newest     time.Time `json:"newest,omitempty"`
	Backend    string    `json:"backend"`
}

// ContentRecord is the booklet-shaped document mirrored into the content store
type ContentRecord struct {
	PatternHash string                 `json:"patternHash" bson:"patternHash"`
	Title       string                 `json:"title" bson:"title"`
	Tags        []string               `json:"tags" bson:"tags"`
	Source      ResultSource           `json:"source" bson:"source"`
	Provider    string                 `json:"provider,omitempty" bson:"provider,omitempty"`
	Response    RecommendationResponse `json:"response" bson:"response"`
	UsageCount  int                    `json:"usageCount" bson:"usageCount"`
	CreatedAt   time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt" bson:"updatedAt"`
}
