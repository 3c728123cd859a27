package livefeed_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mertdogan/sportspot-api/internal/livefeed"
)

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

func TestPublishDoesNotBlockOnStalledSink(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: stalledSink(t)})
	t.Cleanup(func() { _ = client.Close() })

	feed := livefeed.NewFeed(client, zap.NewNop())

	start := time.Now()
	feed.Publish(context.Background(), livefeed.SlotUpdate{
		StationID:   1,
		SlotID:      10,
		SlotNumber:  1,
		IsAvailable: false,
		UpdatedAt:   time.Now(),
	})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 200*time.Millisecond, "Publish stalled the caller for %v", elapsed)
}
