package requestRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotline/models"
)

func (r *mongoRequestRepo) CreateWithLock(ctx context.Context, req *models.SessionRequest, lock *models.BlockedSlot, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		// Expired holds on this exact interval are dead weight; clear them so
		// the unique index decides between live contenders only. Concurrent
		// creators both issue this delete, then exactly one insert wins.
		_, err := r.locks.DeleteMany(sc, bson.M{
			"provider_id": lock.ProviderID,
			"date":        lock.Date,
			"start_time":  lock.StartTime,
			"end_time":    lock.EndTime,
			"expires_at":  bson.M{"$lte": now},
		})
		if err != nil {
			return err
		}

		if _, err := r.locks.InsertOne(sc, lock); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return err
		}

		_, err = r.requests.InsertOne(sc, req)
		return err
	})
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.SessionRequest
	err := r.requests.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}
