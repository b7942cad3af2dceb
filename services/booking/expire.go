package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	requestRepo "slotline/database/repository/request"
	"slotline/utils"
)

// ExpireDueRequests transitions one batch of overdue requests to EXPIRED and
// releases their locks. Safe to run from any number of reaper instances:
// each expiry is a guarded update, so a request expired by someone else is
// just skipped.
func (s *DefaultBookingService) ExpireDueRequests(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	now := s.now().UTC()

	due, err := s.Requests.ListExpiredBatch(ctx, now, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue requests: %w", err)
	}

	logger := utils.GetLogger()
	expired := 0
	for _, req := range due {
		err := s.Requests.Expire(ctx, req.ID, now)
		switch {
		case err == nil:
			expired++
		case errors.Is(err, requestRepo.ErrStaleTransition):
			// Lost to a concurrent transition; nothing to do.
		default:
			logger.Error("failed to expire request",
				zap.String("requestID", req.ID), zap.Error(err))
		}
	}

	if expired > 0 {
		logger.Info("expired overdue session requests", zap.Int("count", expired))
	}
	return expired, nil
}
