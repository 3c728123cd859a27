// Package livefeed broadcasts slot-state changes over redis pub/sub so
// clients can observe a station without re-fetching it.
package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SlotUpdate is one slot-state change on a station.
type SlotUpdate struct {
	StationID   uint      `json:"station_id"`
	SlotID      uint      `json:"slot_id"`
	SlotNumber  int       `json:"slot_number"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Feed struct {
	client *redis.Client
	logger *zap.Logger
}

func NewFeed(client *redis.Client, logger *zap.Logger) *Feed {
	return &Feed{
		client: client,
		logger: logger,
	}
}

func channelFor(stationID uint) string {
	return fmt.Sprintf("stations:%d:slots", stationID)
}

// Publish is fire-and-forget: a dropped update only delays subscribers
// until the next change, it never fails or stalls the reservation that
// caused it. The redis call runs on its own goroutine.
func (f *Feed) Publish(_ context.Context, update SlotUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		f.logger.Warn("slot update dropped", zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := f.client.Publish(ctx, channelFor(update.StationID), payload).Err(); err != nil {
			f.logger.Warn("slot update dropped",
				zap.Uint("station_id", update.StationID),
				zap.Error(err),
			)
		}
	}()
}

// Subscribe returns a channel of slot updates for one station. The channel
// closes when ctx is cancelled or the returned stop function is called.
func (f *Feed) Subscribe(ctx context.Context, stationID uint) (<-chan SlotUpdate, func()) {
	sub := f.client.Subscribe(ctx, channelFor(stationID))
	updates := make(chan SlotUpdate, 16)

	go func() {
		defer close(updates)

		for msg := range sub.Channel() {
			var update SlotUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				f.logger.Warn("malformed slot update", zap.Error(err))
				continue
			}

			select {
			case updates <- update:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		_ = sub.Close()
	}

	return updates, stop
}
