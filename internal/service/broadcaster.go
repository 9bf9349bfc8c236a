package service

import "hellosleep/internal/model"

// Broadcaster receives pipeline events (implemented by the ws hub, avoids import cycle)
type Broadcaster interface {
	BroadcastPipeline(event model.PipelineEvent)
}
