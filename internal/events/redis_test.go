package events_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mertdogan/sportspot-api/internal/events"
)

// stalledSink accepts TCP connections and never responds, like a redis
// node that is up but wedged.
func stalledSink(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	return ln.Addr().String()
}

func TestRecordDoesNotBlockOnStalledSink(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: stalledSink(t)})
	t.Cleanup(func() { _ = client.Close() })

	recorder := events.NewRedisRecorder(client, zap.NewNop())

	start := time.Now()
	recorder.Record(context.Background(), "reservation_created", map[string]interface{}{
		"reservation_id": uint(1),
	})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 200*time.Millisecond, "Record stalled the caller for %v", elapsed)
}
