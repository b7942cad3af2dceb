package cron

import (
	"context"
	"time"

	"go.uber.org/zap"

	"slotline/services/booking"
	"slotline/utils"
)

const defaultReaperInterval = 30 * time.Second

// Reaper sweeps overdue session requests into EXPIRED so their slot locks
// come back into circulation even when nobody touches the request again.
type Reaper struct {
	Booking   booking.Service
	Interval  time.Duration
	BatchSize int
}

// Run blocks until ctx is cancelled, sweeping once per interval. Run it in
// its own goroutine.
func (r *Reaper) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = defaultReaperInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.GetLogger().Info("expiry reaper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			utils.GetLogger().Info("expiry reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	expired, err := r.Booking.ExpireDueRequests(ctx, r.BatchSize)
	if err != nil {
		utils.GetLogger().Warn("expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		utils.GetLogger().Info("expiry sweep released overdue requests", zap.Int("expired", expired))
	}
}
