package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pricingRepo "slotline/database/repository/pricing"
	requestRepo "slotline/database/repository/request"
	"slotline/models"
	"slotline/utils"
)

func (s *DefaultBookingService) CreateRequest(ctx context.Context, requester models.Principal, in CreateInput) (*models.SessionRequest, error) {
	if requester.Role != models.RoleRequester {
		return nil, utils.Forbidden("only requesters can create session requests")
	}
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	// Re-run the generator: the requester's slot list may be stale, and this
	// is the cheap check before the unique lock index has the final word.
	list, err := s.Slots.GetSlots(ctx, in.ProviderID, in.Date)
	if err != nil {
		return nil, err
	}
	if !slotOffered(list, in) {
		return nil, utils.Conflictf("slot", "%s %s-%s is no longer available", in.Date, in.StartTime, in.EndTime)
	}

	amount, currency, err := s.resolveRate(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.paymentWindow())
	req := &models.SessionRequest{
		ID:           uuid.New().String(),
		ProviderID:   in.ProviderID,
		RequesterID:  requester.ID,
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Amount:       amount,
		Currency:     currency,
		Status:       models.StatusPendingPayment,
		ExpiresAt:    expiresAt,
		SessionTitle: in.SessionTitle,
		SessionType:  in.SessionType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	lock := &models.BlockedSlot{
		ID:               uuid.New().String(),
		ProviderID:       in.ProviderID,
		Date:             in.Date,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		ExpiresAt:        expiresAt,
		SessionRequestID: req.ID,
		CreatedAt:        now,
	}
	req.BlockedSlotID = lock.ID

	if err := s.Requests.CreateWithLock(ctx, req, lock, now); err != nil {
		if errors.Is(err, requestRepo.ErrSlotTaken) {
			return nil, utils.Conflictf("slot", "%s %s-%s is no longer available", in.Date, in.StartTime, in.EndTime)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	utils.GetLogger().Info("session request created",
		zap.String("requestID", req.ID),
		zap.String("providerID", req.ProviderID),
		zap.String("requesterID", req.RequesterID),
		zap.String("slot", req.Date+" "+req.StartTime))
	return req, nil
}

func validateCreateInput(in CreateInput) error {
	if in.ProviderID == "" {
		return utils.Validationf("provider_id is required")
	}
	// Format check only; the slot service re-parses in the provider zone.
	if _, err := utils.ParseDate(in.Date, time.UTC); err != nil {
		return utils.Validationf("%v", err)
	}
	if err := utils.ClockRangeValid(in.StartTime, in.EndTime); err != nil {
		return utils.Validationf("%v", err)
	}
	if in.SessionTitle == "" {
		return utils.Validationf("session_title is required")
	}
	return nil
}

// slotOffered reports whether the exact requested interval is in the
// freshly generated list.
func slotOffered(list *models.SlotList, in CreateInput) bool {
	for _, slot := range list.Slots {
		if slot.StartTime == in.StartTime && slot.EndTime == in.EndTime {
			return true
		}
	}
	return false
}

// resolveRate prices the session: the provider's own rate when one exists,
// the configured default otherwise.
func (s *DefaultBookingService) resolveRate(ctx context.Context, providerID string) (float64, string, error) {
	rate, err := s.Pricing.GetRate(ctx, providerID)
	if err != nil {
		if errors.Is(err, pricingRepo.ErrNotFound) {
			return s.DefaultAmount, s.DefaultCurrency, nil
		}
		return 0, "", fmt.Errorf("failed to resolve rate: %w", err)
	}
	return rate.AmountPerSession, rate.Currency, nil
}
