package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	pricingRepo "slotline/database/repository/pricing"
	requestRepo "slotline/database/repository/request"
	sessionRepo "slotline/database/repository/session"
	"slotline/models"
	"slotline/services/notification"
	"slotline/services/slots"
	"slotline/utils"
)

// Service drives the session-request lifecycle: creation against live
// availability, the requester-side transitions, the admin review queue, and
// the reaper's deadline sweep.
type Service interface {
	CreateRequest(ctx context.Context, requester models.Principal, in CreateInput) (*models.SessionRequest, error)
	GetRequest(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error)
	ListRequests(ctx context.Context, p models.Principal, page, pageSize int) ([]models.SessionRequest, int64, error)
	UploadPaymentProof(ctx context.Context, p models.Principal, id, proofRef string) (*models.SessionRequest, error)
	CancelRequest(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error)

	PendingQueue(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error)
	ApproveRequest(ctx context.Context, admin models.Principal, id string) (*models.ConfirmedSession, error)
	RejectRequest(ctx context.Context, admin models.Principal, id, reason string) (*models.SessionRequest, error)
	SetProviderRate(ctx context.Context, admin models.Principal, providerID string, amount float64, currency string) (*models.ProviderRate, error)

	// ExpireDueRequests sweeps one batch of overdue requests into EXPIRED and
	// reports how many this caller actually transitioned.
	ExpireDueRequests(ctx context.Context, batchSize int) (int, error)
}

// CreateInput is the requester's booking intent: an exact generated slot
// plus session metadata.
type CreateInput struct {
	ProviderID   string `json:"provider_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	SessionTitle string `json:"session_title"`
	SessionType  string `json:"session_type"`
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Requests requestRepo.Repository
	Sessions sessionRepo.Repository
	Pricing  pricingRepo.Repository
	// Slots must read through to the store (wire it without a cache):
	// creation re-runs the generator to defend against stale client views,
	// and a cached list would re-introduce the staleness it defends against.
	Slots    slots.Service
	Notifier notification.Service

	PaymentWindow   time.Duration // default 10m
	ReviewWindow    time.Duration // default 24h
	DefaultAmount   float64
	DefaultCurrency string

	Clock func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultBookingService) paymentWindow() time.Duration {
	if s.PaymentWindow > 0 {
		return s.PaymentWindow
	}
	return 10 * time.Minute
}

func (s *DefaultBookingService) reviewWindow() time.Duration {
	if s.ReviewWindow > 0 {
		return s.ReviewWindow
	}
	return 24 * time.Hour
}

// fetch loads a request or maps the miss into the taxonomy.
func (s *DefaultBookingService) fetch(ctx context.Context, id string) (*models.SessionRequest, error) {
	req, err := s.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrNotFound) {
			return nil, utils.NotFound("session request")
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	return req, nil
}

// selfHealExpire forces an overdue request into EXPIRED (releasing its lock)
// and reports the expiry. Losing the expire race is fine: someone else
// already converged the request to the same terminal state.
func (s *DefaultBookingService) selfHealExpire(ctx context.Context, req *models.SessionRequest, action string) error {
	err := s.Requests.Expire(ctx, req.ID, s.now().UTC())
	if err != nil && !errors.Is(err, requestRepo.ErrStaleTransition) {
		return fmt.Errorf("failed to expire request %s: %w", req.ID, err)
	}
	return utils.Expired(fmt.Sprintf("request deadline passed; it is now expired and the slot was released (attempted: %s)", action))
}

// overdue reports whether the request's current deadline has passed.
func (s *DefaultBookingService) overdue(req *models.SessionRequest) bool {
	return !req.ExpiresAt.After(s.now().UTC())
}
