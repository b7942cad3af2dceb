package requestRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"slotline/models"
)

func (r *mongoRequestRepo) ListActiveLocks(ctx context.Context, providerID, date string, now time.Time) ([]models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.locks.Find(ctx, bson.M{
		"provider_id": providerID,
		"date":        date,
		"expires_at":  bson.M{"$gt": now},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.BlockedSlot
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
