package requestRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"slotline/database"
	"slotline/models"
)

// Sentinel errors surfaced to the service layer.
var (
	// ErrNotFound: no request with that id.
	ErrNotFound = errors.New("request: not found")
	// ErrSlotTaken: an active blocked slot already holds the exact interval.
	ErrSlotTaken = errors.New("request: slot already reserved")
	// ErrStaleTransition: the conditional status update matched nothing; the
	// request moved on (or expired) between read and write.
	ErrStaleTransition = errors.New("request: transition lost, request already resolved")
	// ErrSessionExists: approval collided with a confirmed session on the
	// same interval (or the request was already approved).
	ErrSessionExists = errors.New("request: confirmed session already exists")
)

// Repository stores session requests and their blocked-slot locks. The two
// are written together: a request appears with its lock or not at all, and
// every resolving transition removes the lock in the same transaction.
type Repository interface {
	EnsureIndexes(ctx context.Context) error

	// CreateWithLock inserts the request and its lock atomically. Expired
	// locks still occupying the interval are cleared first, so the unique
	// lock index only rejects callers racing an active hold.
	CreateWithLock(ctx context.Context, req *models.SessionRequest, lock *models.BlockedSlot, now time.Time) error

	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
	ListByRequester(ctx context.Context, requesterID string, page, pageSize int) ([]models.SessionRequest, int64, error)
	ListByProvider(ctx context.Context, providerID string, page, pageSize int) ([]models.SessionRequest, int64, error)
	ListPendingApproval(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error)
	// ListExpiredBatch returns non-terminal requests whose deadline has
	// passed, oldest first, capped at limit. Used by the reaper.
	ListExpiredBatch(ctx context.Context, now time.Time, limit int) ([]models.SessionRequest, error)

	// ListActiveLocks returns the non-expired blocked slots for one provider
	// and date.
	ListActiveLocks(ctx context.Context, providerID, date string, now time.Time) ([]models.BlockedSlot, error)

	// Transitions. Each is a conditional write guarded on the current status
	// (and deadline where the operation is time-boxed); a guard miss returns
	// ErrStaleTransition and changes nothing.
	MarkPendingApproval(ctx context.Context, id, proofRef string, now, newExpiry time.Time) error
	Cancel(ctx context.Context, id string, now time.Time) error
	Approve(ctx context.Context, id string, session *models.ConfirmedSession, now time.Time) error
	Reject(ctx context.Context, id, reason string, now time.Time) error
	Expire(ctx context.Context, id string, now time.Time) error
}

type mongoRequestRepo struct {
	requests *mongo.Collection
	locks    *mongo.Collection
	sessions *mongo.Collection
}

// NewMongoRequestRepo constructs the MongoDB-backed Repository. It also
// holds the confirmed-sessions collection because approval writes the
// session, the status flip, and the lock removal in one transaction.
func NewMongoRequestRepo() Repository {
	db := database.DB()
	return &mongoRequestRepo{
		requests: db.Collection("session_requests"),
		locks:    db.Collection("blocked_slots"),
		sessions: db.Collection("confirmed_sessions"),
	}
}

// withTxn runs fn inside a MongoDB transaction, aborting on error.
func (r *mongoRequestRepo) withTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.requests.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
