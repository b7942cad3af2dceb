package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotline/models"
)

func TestExpireDueRequests(t *testing.T) {
	fx := newFixture(t)

	// Unpaid request, deadline 10 minutes out.
	inA := fx.defaultCreateInput()
	inA.StartTime, inA.EndTime = "09:00", "10:00"
	unpaid, err := fx.svc.CreateRequest(context.Background(), requesterPrincipal(testRequester), inA)
	require.NoError(t, err)

	// Awaiting review, deadline 24 hours out.
	awaiting := fx.createPendingApproval()

	fx.advance(25 * time.Hour)

	// Fresh request created after the jump, not yet due.
	inC := fx.defaultCreateInput()
	inC.StartTime, inC.EndTime = "11:30", "12:30"
	fresh, err := fx.svc.CreateRequest(context.Background(), requesterPrincipal("user-2"), inC)
	require.NoError(t, err)

	n, err := fx.svc.ExpireDueRequests(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{unpaid.ID, awaiting.ID} {
		got, getErr := fx.requests.GetByID(context.Background(), id)
		require.NoError(t, getErr)
		assert.Equal(t, models.StatusExpired, got.Status)
		assert.Nil(t, fx.requests.lockFor(id), "expiry must release the slot lock")
	}

	got, err := fx.requests.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, got.Status)
	assert.NotNil(t, fx.requests.lockFor(fresh.ID))

	// Nothing left to reap.
	n, err = fx.svc.ExpireDueRequests(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExpireDueRequestsHonorsBatchSize(t *testing.T) {
	fx := newFixture(t)

	windows := [][2]string{{"09:00", "10:00"}, {"10:15", "11:15"}, {"11:30", "12:30"}}
	requesters := []string{"user-a", "user-b", "user-c"}
	for i, window := range windows {
		in := fx.defaultCreateInput()
		in.StartTime, in.EndTime = window[0], window[1]
		_, err := fx.svc.CreateRequest(context.Background(), requesterPrincipal(requesters[i]), in)
		require.NoError(t, err)
	}

	fx.advance(11 * time.Minute)

	n, err := fx.svc.ExpireDueRequests(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = fx.svc.ExpireDueRequests(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExpireDueRequestsIgnoresAlreadyExpired(t *testing.T) {
	fx := newFixture(t)
	req := fx.createRequest()
	fx.advance(11 * time.Minute)

	// Another reaper got there first.
	require.NoError(t, fx.requests.Expire(context.Background(), req.ID, fx.now))

	n, err := fx.svc.ExpireDueRequests(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
