package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	sessionRepo "slotline/database/repository/session"
	"slotline/models"
	"slotline/services/availability"
	"slotline/services/booking"
	"slotline/services/session"
	"slotline/services/slots"
)

// withPrincipal stands in for AuthMiddleware: it injects an authenticated
// principal under the same context key.
func withPrincipal(p models.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("principal", p)
		c.Next()
	}
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

var (
	requesterP = models.Principal{ID: "user-1", Role: models.RoleRequester}
	providerP  = models.Principal{ID: "prov-1", Role: models.RoleProvider}
	adminP     = models.Principal{ID: "admin-1", Role: models.RoleAdmin}
)

// Service fakes: function fields for the methods a test exercises, the
// embedded interface panics on anything unexpected.

type fakeBookingSvc struct {
	booking.Service
	create  func(ctx context.Context, p models.Principal, in booking.CreateInput) (*models.SessionRequest, error)
	get     func(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error)
	list    func(ctx context.Context, p models.Principal, page, pageSize int) ([]models.SessionRequest, int64, error)
	upload  func(ctx context.Context, p models.Principal, id, proofRef string) (*models.SessionRequest, error)
	cancel  func(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error)
	pending func(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error)
	approve func(ctx context.Context, admin models.Principal, id string) (*models.ConfirmedSession, error)
	reject  func(ctx context.Context, admin models.Principal, id, reason string) (*models.SessionRequest, error)
	setRate func(ctx context.Context, admin models.Principal, providerID string, amount float64, currency string) (*models.ProviderRate, error)
}

func (f *fakeBookingSvc) CreateRequest(ctx context.Context, p models.Principal, in booking.CreateInput) (*models.SessionRequest, error) {
	return f.create(ctx, p, in)
}

func (f *fakeBookingSvc) GetRequest(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error) {
	return f.get(ctx, p, id)
}

func (f *fakeBookingSvc) ListRequests(ctx context.Context, p models.Principal, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return f.list(ctx, p, page, pageSize)
}

func (f *fakeBookingSvc) UploadPaymentProof(ctx context.Context, p models.Principal, id, proofRef string) (*models.SessionRequest, error) {
	return f.upload(ctx, p, id, proofRef)
}

func (f *fakeBookingSvc) CancelRequest(ctx context.Context, p models.Principal, id string) (*models.SessionRequest, error) {
	return f.cancel(ctx, p, id)
}

func (f *fakeBookingSvc) PendingQueue(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return f.pending(ctx, page, pageSize)
}

func (f *fakeBookingSvc) ApproveRequest(ctx context.Context, admin models.Principal, id string) (*models.ConfirmedSession, error) {
	return f.approve(ctx, admin, id)
}

func (f *fakeBookingSvc) RejectRequest(ctx context.Context, admin models.Principal, id, reason string) (*models.SessionRequest, error) {
	return f.reject(ctx, admin, id, reason)
}

func (f *fakeBookingSvc) SetProviderRate(ctx context.Context, admin models.Principal, providerID string, amount float64, currency string) (*models.ProviderRate, error) {
	return f.setRate(ctx, admin, providerID, amount, currency)
}

type fakeAvailabilitySvc struct {
	availability.Service
	initSettings func(ctx context.Context, providerID string, in availability.SettingsInput) (*models.AvailabilitySettings, error)
	createRule   func(ctx context.Context, providerID string, in availability.RuleInput) (*models.AvailabilityRule, error)
	deleteRule   func(ctx context.Context, providerID, ruleID string) error
}

func (f *fakeAvailabilitySvc) InitSettings(ctx context.Context, providerID string, in availability.SettingsInput) (*models.AvailabilitySettings, error) {
	return f.initSettings(ctx, providerID, in)
}

func (f *fakeAvailabilitySvc) CreateRule(ctx context.Context, providerID string, in availability.RuleInput) (*models.AvailabilityRule, error) {
	return f.createRule(ctx, providerID, in)
}

func (f *fakeAvailabilitySvc) DeleteRule(ctx context.Context, providerID, ruleID string) error {
	return f.deleteRule(ctx, providerID, ruleID)
}

type fakeSlotSvc struct {
	slots.Service
	getSlots func(ctx context.Context, providerID, date string) (*models.SlotList, error)
}

func (f *fakeSlotSvc) GetSlots(ctx context.Context, providerID, date string) (*models.SlotList, error) {
	return f.getSlots(ctx, providerID, date)
}

type fakeSessionSvc struct {
	session.Service
	adminList func(ctx context.Context, p models.Principal, filter sessionRepo.AdminFilter, page, pageSize int) ([]models.ConfirmedSession, int64, error)
}

func (f *fakeSessionSvc) AdminListSessions(ctx context.Context, p models.Principal, filter sessionRepo.AdminFilter, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	return f.adminList(ctx, p, filter, page, pageSize)
}
