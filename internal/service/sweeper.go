package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NoShowSweeper periodically expires confirmed reservations that were never
// picked up. Without it, a no-show would leak its slot as unavailable
// forever.
type NoShowSweeper struct {
	svc      *ReservationService
	interval time.Duration
	logger   *zap.Logger
}

func NewNoShowSweeper(svc *ReservationService, interval time.Duration, logger *zap.Logger) *NoShowSweeper {
	if interval <= 0 {
		interval = time.Minute
	}

	return &NoShowSweeper{
		svc:      svc,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Callers start it in its own goroutine.
func (w *NoShowSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *NoShowSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	expired, err := w.svc.ExpireNoShows(sweepCtx)
	if err != nil {
		w.logger.Error("no-show sweep failed", zap.Error(err))
		return
	}

	if expired > 0 {
		w.logger.Info("no-show sweep", zap.Int("expired", expired))
	}
}
