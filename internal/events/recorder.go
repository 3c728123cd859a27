// Package events is the fire-and-forget analytics sink. Recording an event
// must never block or fail the operation that produced it.
package events

import (
	"context"

	"go.uber.org/zap"
)

type Recorder interface {
	Record(ctx context.Context, name string, attrs map[string]interface{})
}

// LogRecorder writes events to the service log. It is the fallback sink
// when no redis stream is configured.
type LogRecorder struct {
	logger *zap.Logger
}

func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{
		logger: logger,
	}
}

func (r *LogRecorder) Record(_ context.Context, name string, attrs map[string]interface{}) {
	r.logger.Info("analytics event",
		zap.String("event", name),
		zap.Any("attrs", attrs),
	)
}
