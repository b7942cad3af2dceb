package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	requestRepo "slotline/database/repository/request"
	"slotline/models"
	"slotline/utils"
)

func (s *DefaultBookingService) UploadPaymentProof(ctx context.Context, p models.Principal, id, proofRef string) (*models.SessionRequest, error) {
	if proofRef == "" {
		return nil, utils.Validationf("payment_proof_ref is required")
	}

	req, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleRequester || req.RequesterID != p.ID {
		return nil, utils.Forbidden("only the request's owner can upload payment proof")
	}
	if req.Status != models.StatusPendingPayment {
		return nil, stateError(req, models.StatusPendingPayment)
	}
	if s.overdue(req) {
		return nil, s.selfHealExpire(ctx, req, "payment proof upload")
	}

	now := s.now().UTC()
	err = s.Requests.MarkPendingApproval(ctx, id, proofRef, now, now.Add(s.reviewWindow()))
	if err != nil {
		if errors.Is(err, requestRepo.ErrStaleTransition) {
			return nil, s.classifyStale(ctx, id, models.StatusPendingPayment, "payment proof upload")
		}
		return nil, fmt.Errorf("failed to record payment proof: %w", err)
	}

	utils.GetLogger().Info("payment proof uploaded",
		zap.String("requestID", id), zap.String("requesterID", p.ID))
	return s.fetch(ctx, id)
}

func (s *DefaultBookingService) CancelRequest(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error) {
	req, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleRequester || req.RequesterID != p.ID {
		return nil, utils.Forbidden("only the request's owner can cancel it")
	}
	if req.Status != models.StatusPendingPayment {
		// Once proof is uploaded the requester can no longer unilaterally
		// back out.
		return nil, stateError(req, models.StatusPendingPayment)
	}
	if s.overdue(req) {
		return nil, s.selfHealExpire(ctx, req, "cancellation")
	}

	if err := s.Requests.Cancel(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, requestRepo.ErrStaleTransition) {
			return nil, s.classifyStale(ctx, id, models.StatusPendingPayment, "cancellation")
		}
		return nil, fmt.Errorf("failed to cancel request: %w", err)
	}

	utils.GetLogger().Info("session request cancelled",
		zap.String("requestID", id), zap.String("requesterID", p.ID))
	return s.fetch(ctx, id)
}

// stateError classifies a request that is not in the status an operation
// requires. A state the request never reached surfaces as not-found (it was
// never in that queue); a state past the requirement is a conflict; EXPIRED
// always reports as expiry so retries converge.
func stateError(req *models.SessionRequest, required models.RequestStatus) error {
	if req.Status == models.StatusExpired {
		return utils.Expired("request has expired; the slot was released")
	}
	if required == models.StatusPendingApproval && req.Status == models.StatusPendingPayment {
		return utils.NotFound("session request awaiting review")
	}
	switch req.Status {
	case models.StatusPendingApproval:
		return utils.Conflictf("session request", "payment proof already uploaded; awaiting review")
	case models.StatusConfirmed:
		return utils.Conflictf("session request", "already confirmed")
	case models.StatusRejected:
		return utils.Conflictf("session request", "already rejected")
	case models.StatusCancelled:
		return utils.Conflictf("session request", "already cancelled")
	}
	return utils.Conflictf("session request", "status %s does not allow this operation", req.Status)
}

// classifyStale re-reads after a lost conditional update and turns what it
// finds into the right taxonomy error. If the status still matches, the
// guard that failed was the deadline bound, so self-heal to EXPIRED.
func (s *DefaultBookingService) classifyStale(ctx context.Context, id string, required models.RequestStatus, action string) error {
	req, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if req.Status == required {
		return s.selfHealExpire(ctx, req, action)
	}
	return stateError(req, required)
}
