package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventStream  = "analytics:events"
	recordWindow = 2 * time.Second
)

// RedisRecorder appends events to a redis stream for the downstream
// analytics consumer. Failures are logged and swallowed.
type RedisRecorder struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisRecorder(client *redis.Client, logger *zap.Logger) *RedisRecorder {
	return &RedisRecorder{
		client: client,
		logger: logger,
	}
}

func (r *RedisRecorder) Record(_ context.Context, name string, attrs map[string]interface{}) {
	payload, err := json.Marshal(attrs)
	if err != nil {
		r.logger.Warn("analytics event dropped", zap.String("event", name), zap.Error(err))
		return
	}

	// Dispatched on its own goroutine and detached from the request
	// context: the reservation outcome must not wait on the sink, and a
	// cancelled request still gets its event.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordWindow)
		defer cancel()

		err := r.client.XAdd(ctx, &redis.XAddArgs{
			Stream: eventStream,
			Values: map[string]interface{}{
				"id":    uuid.NewString(),
				"event": name,
				"attrs": payload,
				"at":    time.Now().UTC().Format(time.RFC3339),
			},
		}).Err()
		if err != nil {
			r.logger.Warn("analytics event dropped", zap.String("event", name), zap.Error(err))
		}
	}()
}
