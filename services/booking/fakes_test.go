package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	pricingRepo "slotline/database/repository/pricing"
	requestRepo "slotline/database/repository/request"
	sessionRepo "slotline/database/repository/session"
	"slotline/models"
)

// fakeRequestRepo mirrors the Mongo repository's guard semantics in memory:
// conditional transitions that lose return ErrStaleTransition, the lock
// tuple is unique among active locks, and resolving transitions release the
// lock.

type fakeRequestRepo struct {
	requests map[string]models.SessionRequest
	locks    map[string]models.BlockedSlot
	sessions *fakeSessionStore
}

func newFakeRequestRepo(sessions *fakeSessionStore) *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[string]models.SessionRequest),
		locks:    make(map[string]models.BlockedSlot),
		sessions: sessions,
	}
}

func (f *fakeRequestRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeRequestRepo) CreateWithLock(ctx context.Context, req *models.SessionRequest, lock *models.BlockedSlot, now time.Time) error {
	for id, existing := range f.locks {
		if existing.ProviderID == lock.ProviderID && existing.Date == lock.Date &&
			existing.StartTime == lock.StartTime && existing.EndTime == lock.EndTime {
			if existing.Active(now) {
				return requestRepo.ErrSlotTaken
			}
			delete(f.locks, id)
		}
	}
	f.locks[lock.ID] = *lock
	f.requests[req.ID] = *req
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, requestRepo.ErrNotFound
	}
	return &req, nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID string, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return f.filter(func(r models.SessionRequest) bool { return r.RequesterID == requesterID })
}

func (f *fakeRequestRepo) ListByProvider(ctx context.Context, providerID string, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return f.filter(func(r models.SessionRequest) bool { return r.ProviderID == providerID })
}

func (f *fakeRequestRepo) ListPendingApproval(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return f.filter(func(r models.SessionRequest) bool { return r.Status == models.StatusPendingApproval })
}

func (f *fakeRequestRepo) filter(keep func(models.SessionRequest) bool) ([]models.SessionRequest, int64, error) {
	var out []models.SessionRequest
	for _, r := range f.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) ListExpiredBatch(ctx context.Context, now time.Time, limit int) ([]models.SessionRequest, error) {
	var out []models.SessionRequest
	for _, r := range f.requests {
		if !r.Status.Terminal() && !r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRequestRepo) ListActiveLocks(ctx context.Context, providerID, date string, now time.Time) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for _, l := range f.locks {
		if l.ProviderID == providerID && l.Date == date && l.Active(now) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) MarkPendingApproval(ctx context.Context, id, proofRef string, now, newExpiry time.Time) error {
	req, ok := f.requests[id]
	if !ok || req.Status != models.StatusPendingPayment || !req.ExpiresAt.After(now) {
		return requestRepo.ErrStaleTransition
	}
	req.Status = models.StatusPendingApproval
	req.PaymentProofRef = proofRef
	req.ExpiresAt = newExpiry
	req.UpdatedAt = now
	f.requests[id] = req

	for lockID, lock := range f.locks {
		if lock.SessionRequestID == id {
			lock.ExpiresAt = newExpiry
			f.locks[lockID] = lock
		}
	}
	return nil
}

func (f *fakeRequestRepo) Cancel(ctx context.Context, id string, now time.Time) error {
	req, ok := f.requests[id]
	if !ok || req.Status != models.StatusPendingPayment || !req.ExpiresAt.After(now) {
		return requestRepo.ErrStaleTransition
	}
	req.Status = models.StatusCancelled
	req.UpdatedAt = now
	f.requests[id] = req
	f.releaseLock(id)
	return nil
}

func (f *fakeRequestRepo) Approve(ctx context.Context, id string, session *models.ConfirmedSession, now time.Time) error {
	req, ok := f.requests[id]
	if !ok || req.Status != models.StatusPendingApproval || !req.ExpiresAt.After(now) {
		return requestRepo.ErrStaleTransition
	}
	for _, existing := range f.sessions.sessions {
		if existing.RequestID == session.RequestID ||
			(existing.ProviderID == session.ProviderID && existing.Date == session.Date &&
				existing.StartTime == session.StartTime && existing.EndTime == session.EndTime) {
			return requestRepo.ErrSessionExists
		}
	}
	req.Status = models.StatusConfirmed
	req.UpdatedAt = now
	f.requests[id] = req
	f.sessions.sessions[session.ID] = *session
	f.releaseLock(id)
	return nil
}

func (f *fakeRequestRepo) Reject(ctx context.Context, id, reason string, now time.Time) error {
	req, ok := f.requests[id]
	if !ok || req.Status != models.StatusPendingApproval || !req.ExpiresAt.After(now) {
		return requestRepo.ErrStaleTransition
	}
	req.Status = models.StatusRejected
	req.RejectionReason = reason
	req.UpdatedAt = now
	f.requests[id] = req
	f.releaseLock(id)
	return nil
}

func (f *fakeRequestRepo) Expire(ctx context.Context, id string, now time.Time) error {
	req, ok := f.requests[id]
	if !ok || req.Status.Terminal() || req.ExpiresAt.After(now) {
		return requestRepo.ErrStaleTransition
	}
	req.Status = models.StatusExpired
	req.UpdatedAt = now
	f.requests[id] = req
	f.releaseLock(id)
	return nil
}

func (f *fakeRequestRepo) releaseLock(requestID string) {
	for lockID, lock := range f.locks {
		if lock.SessionRequestID == requestID {
			delete(f.locks, lockID)
		}
	}
}

func (f *fakeRequestRepo) lockFor(requestID string) *models.BlockedSlot {
	for _, lock := range f.locks {
		if lock.SessionRequestID == requestID {
			l := lock
			return &l
		}
	}
	return nil
}

// fakeSessionStore implements sessionRepo.Repository over a map.

type fakeSessionStore struct {
	sessionRepo.Repository
	sessions map[string]models.ConfirmedSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]models.ConfirmedSession)}
}

func (f *fakeSessionStore) ExistsForInterval(ctx context.Context, providerID, date, startTime, endTime string) (bool, error) {
	for _, s := range f.sessions {
		if s.ProviderID == providerID && s.Date == date && s.StartTime == startTime && s.EndTime == endTime {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionStore) ListByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ConfirmedSession, error) {
	var out []models.ConfirmedSession
	for _, s := range f.sessions {
		if s.ProviderID == providerID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) bySessionRequest(requestID string) *models.ConfirmedSession {
	for _, s := range f.sessions {
		if s.RequestID == requestID {
			match := s
			return &match
		}
	}
	return nil
}

// fakePricing returns a fixed rate, or the not-found sentinel when unset.

type fakePricing struct {
	rate *models.ProviderRate
}

func (f *fakePricing) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakePricing) GetRate(ctx context.Context, providerID string) (*models.ProviderRate, error) {
	if f.rate == nil || f.rate.ProviderID != providerID {
		return nil, pricingRepo.ErrNotFound
	}
	return f.rate, nil
}

func (f *fakePricing) UpsertRate(ctx context.Context, rate *models.ProviderRate) error {
	f.rate = rate
	return nil
}

// fakeSlotSource serves a fixed generated list, standing in for the real
// generator during state-machine tests.

type fakeSlotSource struct {
	list *models.SlotList
	err  error
}

func (f *fakeSlotSource) GetSlots(ctx context.Context, providerID, date string) (*models.SlotList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

// fakeNotifier records every notification it was handed.

type fakeNotifier struct {
	sent []models.NotificationTask
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, recipientID string, role models.Role, n models.Notification) error {
	f.sent = append(f.sent, models.NotificationTask{RecipientID: recipientID, RecipientRole: role, Notification: n})
	return f.err
}

// fixture wires the service over the fakes with a controllable clock.

type fixture struct {
	t        *testing.T
	now      time.Time
	requests *fakeRequestRepo
	sessions *fakeSessionStore
	pricing  *fakePricing
	slots    *fakeSlotSource
	notifier *fakeNotifier
	svc      *DefaultBookingService
}

const (
	testProvider  = "prov-1"
	testRequester = "user-1"
	testDate      = "2026-09-07"
)

func testAdmin() models.Principal {
	return models.Principal{ID: "admin-1", Role: models.RoleAdmin}
}

func requesterPrincipal(id string) models.Principal {
	return models.Principal{ID: id, Role: models.RoleRequester}
}

func newFixture(t *testing.T) *fixture {
	fx := &fixture{
		t:        t,
		now:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		sessions: newFakeSessionStore(),
		pricing:  &fakePricing{},
		notifier: &fakeNotifier{},
	}
	fx.requests = newFakeRequestRepo(fx.sessions)
	fx.slots = &fakeSlotSource{list: &models.SlotList{
		ProviderID: testProvider,
		Date:       testDate,
		Slots: []models.Slot{
			{Date: testDate, StartTime: "09:00", EndTime: "10:00"},
			{Date: testDate, StartTime: "10:15", EndTime: "11:15"},
			{Date: testDate, StartTime: "11:30", EndTime: "12:30"},
		},
	}}
	fx.svc = &DefaultBookingService{
		Requests:        fx.requests,
		Sessions:        fx.sessions,
		Pricing:         fx.pricing,
		Slots:           fx.slots,
		Notifier:        fx.notifier,
		PaymentWindow:   10 * time.Minute,
		ReviewWindow:    24 * time.Hour,
		DefaultAmount:   50,
		DefaultCurrency: "EUR",
		Clock:           func() time.Time { return fx.now },
	}
	return fx
}

// advance moves the fixture clock forward.
func (fx *fixture) advance(d time.Duration) {
	fx.now = fx.now.Add(d)
}

func (fx *fixture) defaultCreateInput() CreateInput {
	return CreateInput{
		ProviderID:   testProvider,
		Date:         testDate,
		StartTime:    "10:15",
		EndTime:      "11:15",
		SessionTitle: "Intro call",
		SessionType:  "video",
	}
}

func (fx *fixture) createRequest() *models.SessionRequest {
	fx.t.Helper()
	req, err := fx.svc.CreateRequest(context.Background(), requesterPrincipal(testRequester), fx.defaultCreateInput())
	if err != nil {
		fx.t.Fatalf("create request: %v", err)
	}
	return req
}

func (fx *fixture) createPendingApproval() *models.SessionRequest {
	fx.t.Helper()
	req := fx.createRequest()
	updated, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), req.ID, "receipt-001")
	if err != nil {
		fx.t.Fatalf("upload proof: %v", err)
	}
	return updated
}
