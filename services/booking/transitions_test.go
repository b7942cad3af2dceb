package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotline/models"
	"slotline/utils"
)

func TestUploadPaymentProof(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	fx.advance(5 * time.Minute) // still inside the payment window

	updated, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), req.ID, "receipt-001")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendingApproval, updated.Status)
	assert.Equal(t, "receipt-001", updated.PaymentProofRef)
	assert.Equal(t, fx.now.Add(24*time.Hour), updated.ExpiresAt, "expiry must extend to the review window")

	lock := fx.requests.lockFor(req.ID)
	require.NotNil(t, lock, "the hold survives into review")
	assert.Equal(t, updated.ExpiresAt, lock.ExpiresAt, "lock expiry must follow the request")
}

func TestUploadPaymentProofPastDeadlineSelfHeals(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	fx.advance(11 * time.Minute) // payment window is 10 minutes

	_, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), req.ID, "receipt-001")
	var expErr *utils.ExpiredError
	require.True(t, errors.As(err, &expErr), "want ExpiredError, got %v", err)

	healed, getErr := fx.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusExpired, healed.Status, "request must be force-expired")
	assert.Nil(t, fx.requests.lockFor(req.ID), "lock must be released")

	// A retry converges to the same answer.
	_, err = fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), req.ID, "receipt-001")
	require.True(t, errors.As(err, &expErr), "want ExpiredError on retry, got %v", err)
}

func TestUploadPaymentProofOnlyOwner(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	_, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal("user-2"), req.ID, "receipt-001")
	var authErr *utils.AuthorizationError
	require.True(t, errors.As(err, &authErr), "want AuthorizationError, got %v", err)
}

func TestUploadPaymentProofTwice(t *testing.T) {
	fx := newFixture(t)
	req := fx.createPendingApproval()

	_, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), req.ID, "receipt-002")
	var conflict *utils.ConflictError
	require.True(t, errors.As(err, &conflict), "want ConflictError, got %v", err)
}

func TestUploadPaymentProofRequiresRef(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	_, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), req.ID, "")
	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
}

func TestUploadPaymentProofUnknownRequest(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.UploadPaymentProof(context.Background(), requesterPrincipal(testRequester), "nope", "receipt-001")
	var nf *utils.NotFoundError
	require.True(t, errors.As(err, &nf), "want NotFoundError, got %v", err)
}

func TestCancelRequest(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	cancelled, err := fx.svc.CancelRequest(context.Background(), requesterPrincipal(testRequester), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Nil(t, fx.requests.lockFor(req.ID), "cancel must release the slot")
}

func TestCancelReleasedSlotBecomesBookable(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	_, err := fx.svc.CancelRequest(context.Background(), requesterPrincipal(testRequester), req.ID)
	require.NoError(t, err)

	// The interval is free again for another requester.
	_, err = fx.svc.CreateRequest(context.Background(), requesterPrincipal("user-2"), fx.defaultCreateInput())
	assert.NoError(t, err)
}

func TestCancelAfterProofUploadIsConflict(t *testing.T) {
	fx := newFixture(t)
	req := fx.createPendingApproval()

	_, err := fx.svc.CancelRequest(context.Background(), requesterPrincipal(testRequester), req.ID)
	var conflict *utils.ConflictError
	require.True(t, errors.As(err, &conflict), "want ConflictError, got %v", err)
}

func TestCancelOnlyOwner(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	_, err := fx.svc.CancelRequest(context.Background(), requesterPrincipal("user-2"), req.ID)
	var authErr *utils.AuthorizationError
	require.True(t, errors.As(err, &authErr), "want AuthorizationError, got %v", err)
}

func TestCancelPastDeadlineSelfHeals(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	fx.advance(11 * time.Minute)

	_, err := fx.svc.CancelRequest(context.Background(), requesterPrincipal(testRequester), req.ID)
	var expErr *utils.ExpiredError
	require.True(t, errors.As(err, &expErr), "want ExpiredError, got %v", err)

	healed, getErr := fx.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusExpired, healed.Status)
}

func TestGetRequestVisibility(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	cases := []struct {
		name    string
		p       models.Principal
		visible bool
	}{
		{"owning requester", requesterPrincipal(testRequester), true},
		{"target provider", models.Principal{ID: testProvider, Role: models.RoleProvider}, true},
		{"admin", testAdmin(), true},
		{"other requester", requesterPrincipal("user-2"), false},
		{"other provider", models.Principal{ID: "prov-2", Role: models.RoleProvider}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fx.svc.GetRequest(context.Background(), tc.p, req.ID)
			if tc.visible {
				require.NoError(t, err)
				assert.Equal(t, req.ID, got.ID)
				return
			}
			var authErr *utils.AuthorizationError
			require.True(t, errors.As(err, &authErr), "want AuthorizationError, got %v", err)
		})
	}
}

func TestListRequestsByRole(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()

	own, total, err := fx.svc.ListRequests(context.Background(), requesterPrincipal(testRequester), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)
	assert.Equal(t, req.ID, own[0].ID)

	incoming, total, err := fx.svc.ListRequests(context.Background(), models.Principal{ID: testProvider, Role: models.RoleProvider}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, incoming, 1)

	none, total, err := fx.svc.ListRequests(context.Background(), requesterPrincipal("user-2"), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, none)

	_, _, err = fx.svc.ListRequests(context.Background(), testAdmin(), 1, 20)
	var authErr *utils.AuthorizationError
	require.True(t, errors.As(err, &authErr), "admins use the admin queue")
}
