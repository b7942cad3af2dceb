package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	requestRepo "slotline/database/repository/request"
	"slotline/models"
	"slotline/utils"
)

// PendingQueue is the admin review queue: requests awaiting approval,
// nearest deadline first.
func (s *DefaultBookingService) PendingQueue(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return s.Requests.ListPendingApproval(ctx, page, pageSize)
}

func (s *DefaultBookingService) ApproveRequest(ctx context.Context, admin models.Principal, id string) (*models.ConfirmedSession, error) {
	if admin.Role != models.RoleAdmin {
		return nil, utils.Forbidden("only admins can approve session requests")
	}

	req, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPendingApproval {
		return nil, stateError(req, models.StatusPendingApproval)
	}
	if s.overdue(req) {
		return nil, s.selfHealExpire(ctx, req, "approval")
	}

	// Belt and suspenders: a confirmed session on this interval created
	// through any other path fails the approval before we write anything.
	exists, err := s.Sessions.ExistsForInterval(ctx, req.ProviderID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicting session: %w", err)
	}
	if exists {
		return nil, utils.Conflictf("confirmed session", "the interval %s %s-%s is already booked", req.Date, req.StartTime, req.EndTime)
	}

	now := s.now().UTC()
	session := &models.ConfirmedSession{
		ID:           uuid.New().String(),
		RequestID:    req.ID,
		ProviderID:   req.ProviderID,
		RequesterID:  req.RequesterID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Amount:       req.Amount,
		Currency:     req.Currency,
		SessionTitle: req.SessionTitle,
		SessionType:  req.SessionType,
		CreatedAt:    now,
	}

	if err := s.Requests.Approve(ctx, id, session, now); err != nil {
		switch {
		case errors.Is(err, requestRepo.ErrStaleTransition):
			return nil, s.classifyStale(ctx, id, models.StatusPendingApproval, "approval")
		case errors.Is(err, requestRepo.ErrSessionExists):
			return nil, utils.Conflictf("confirmed session", "the interval %s %s-%s is already booked", req.Date, req.StartTime, req.EndTime)
		}
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	utils.GetLogger().Info("session request approved",
		zap.String("requestID", req.ID),
		zap.String("sessionID", session.ID),
		zap.String("adminID", admin.ID))

	// Fire-and-forget: a notification failure never unwinds the approval.
	s.notify(ctx, req.RequesterID, models.RoleRequester, models.Notification{
		Title:    "Session confirmed",
		Body:     fmt.Sprintf("Your session %q on %s at %s is confirmed.", req.SessionTitle, req.Date, req.StartTime),
		Category: "session_request",
		Metadata: map[string]string{"request_id": req.ID, "session_id": session.ID},
	})
	s.notify(ctx, req.ProviderID, models.RoleProvider, models.Notification{
		Title:    "New session booked",
		Body:     fmt.Sprintf("A session %q was booked for %s at %s.", req.SessionTitle, req.Date, req.StartTime),
		Category: "session_request",
		Metadata: map[string]string{"request_id": req.ID, "session_id": session.ID},
	})

	return session, nil
}

func (s *DefaultBookingService) RejectRequest(ctx context.Context, admin models.Principal, id, reason string) (*models.SessionRequest, error) {
	if admin.Role != models.RoleAdmin {
		return nil, utils.Forbidden("only admins can reject session requests")
	}
	if reason == "" {
		return nil, utils.Validationf("a rejection reason is required")
	}

	req, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPendingApproval {
		return nil, stateError(req, models.StatusPendingApproval)
	}
	if s.overdue(req) {
		return nil, s.selfHealExpire(ctx, req, "rejection")
	}

	if err := s.Requests.Reject(ctx, id, reason, s.now().UTC()); err != nil {
		if errors.Is(err, requestRepo.ErrStaleTransition) {
			return nil, s.classifyStale(ctx, id, models.StatusPendingApproval, "rejection")
		}
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	utils.GetLogger().Info("session request rejected",
		zap.String("requestID", req.ID),
		zap.String("adminID", admin.ID),
		zap.String("reason", reason))

	s.notify(ctx, req.RequesterID, models.RoleRequester, models.Notification{
		Title:    "Session request rejected",
		Body:     fmt.Sprintf("Your request for %s at %s was rejected: %s", req.Date, req.StartTime, reason),
		Category: "session_request",
		Metadata: map[string]string{"request_id": req.ID, "reason": reason},
	})

	return s.fetch(ctx, id)
}

// SetProviderRate stores the per-session price new requests for the provider
// will be priced at. Existing requests keep the amount they were created with.
func (s *DefaultBookingService) SetProviderRate(ctx context.Context, admin models.Principal, providerID string, amount float64, currency string) (*models.ProviderRate, error) {
	if admin.Role != models.RoleAdmin {
		return nil, utils.Forbidden("only admins can set provider rates")
	}
	if providerID == "" {
		return nil, utils.Validationf("provider_id is required")
	}
	if amount <= 0 {
		return nil, utils.Validationf("amount_per_session must be positive")
	}
	if len(currency) != 3 {
		return nil, utils.Validationf("currency must be a 3-letter code")
	}

	rate := &models.ProviderRate{
		ProviderID:       providerID,
		AmountPerSession: amount,
		Currency:         strings.ToUpper(currency),
		UpdatedAt:        s.now().UTC(),
	}
	if err := s.Pricing.UpsertRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to store provider rate: %w", err)
	}

	utils.GetLogger().Info("provider rate updated",
		zap.String("providerID", providerID),
		zap.Float64("amount", amount),
		zap.String("currency", rate.Currency),
		zap.String("adminID", admin.ID))
	return rate, nil
}

// notify hands a notification to the sink and logs (only) on failure.
func (s *DefaultBookingService) notify(ctx context.Context, recipientID string, role models.Role, n models.Notification) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, recipientID, role, n); err != nil {
		utils.GetLogger().Warn("notification failed",
			zap.String("recipientID", recipientID), zap.Error(err))
	}
}
