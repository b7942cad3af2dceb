package requestRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotline/models"
)

// Every transition is a single conditional UpdateOne: the filter carries the
// required current status (plus the deadline bound for time-boxed moves), so
// two racing actors can never both win. MatchedCount == 0 means the guard
// failed and the caller re-reads to find out why.

func (r *mongoRequestRepo) MarkPendingApproval(ctx context.Context, id, proofRef string, now, newExpiry time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.requests.UpdateOne(sc,
			bson.M{"id": id, "status": models.StatusPendingPayment, "expires_at": bson.M{"$gt": now}},
			bson.M{"$set": bson.M{
				"status":            models.StatusPendingApproval,
				"payment_proof_ref": proofRef,
				"expires_at":        newExpiry,
				"updated_at":        now,
			}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrStaleTransition
		}

		// The hold survives into review, so its lifetime follows the new
		// deadline.
		_, err = r.locks.UpdateOne(sc,
			bson.M{"session_request_id": id},
			bson.M{"$set": bson.M{"expires_at": newExpiry}})
		return err
	})
}

func (r *mongoRequestRepo) Cancel(ctx context.Context, id string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.requests.UpdateOne(sc,
			bson.M{"id": id, "status": models.StatusPendingPayment, "expires_at": bson.M{"$gt": now}},
			bson.M{"$set": bson.M{"status": models.StatusCancelled, "updated_at": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrStaleTransition
		}
		return r.releaseLock(sc, id)
	})
}

func (r *mongoRequestRepo) Approve(ctx context.Context, id string, session *models.ConfirmedSession, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.requests.UpdateOne(sc,
			bson.M{"id": id, "status": models.StatusPendingApproval, "expires_at": bson.M{"$gt": now}},
			bson.M{"$set": bson.M{"status": models.StatusConfirmed, "updated_at": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrStaleTransition
		}

		if _, err := r.sessions.InsertOne(sc, session); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSessionExists
			}
			return err
		}
		return r.releaseLock(sc, id)
	})
}

func (r *mongoRequestRepo) Reject(ctx context.Context, id, reason string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.requests.UpdateOne(sc,
			bson.M{"id": id, "status": models.StatusPendingApproval, "expires_at": bson.M{"$gt": now}},
			bson.M{"$set": bson.M{"status": models.StatusRejected, "rejection_reason": reason, "updated_at": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrStaleTransition
		}
		return r.releaseLock(sc, id)
	})
}

func (r *mongoRequestRepo) Expire(ctx context.Context, id string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.requests.UpdateOne(sc,
			bson.M{
				"id":         id,
				"status":     bson.M{"$in": []models.RequestStatus{models.StatusPendingPayment, models.StatusPendingApproval}},
				"expires_at": bson.M{"$lte": now},
			},
			bson.M{"$set": bson.M{"status": models.StatusExpired, "updated_at": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrStaleTransition
		}
		return r.releaseLock(sc, id)
	})
}

// releaseLock drops the blocked slot for a request. Deleting an
// already-released lock is a no-op, which keeps expiry idempotent.
func (r *mongoRequestRepo) releaseLock(sc mongo.SessionContext, requestID string) error {
	_, err := r.locks.DeleteOne(sc, bson.M{"session_request_id": requestID})
	return err
}
