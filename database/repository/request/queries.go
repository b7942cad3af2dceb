package requestRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/models"
)

func (r *mongoRequestRepo) ListByRequester(ctx context.Context, requesterID string, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return r.pageRequests(ctx,
		bson.M{"requester_id": requesterID},
		bson.D{{Key: "created_at", Value: -1}},
		page, pageSize)
}

func (r *mongoRequestRepo) ListByProvider(ctx context.Context, providerID string, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return r.pageRequests(ctx,
		bson.M{"provider_id": providerID},
		bson.D{{Key: "created_at", Value: -1}},
		page, pageSize)
}

// ListPendingApproval is the admin review queue, nearest deadline first.
func (r *mongoRequestRepo) ListPendingApproval(ctx context.Context, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return r.pageRequests(ctx,
		bson.M{"status": models.StatusPendingApproval},
		bson.D{{Key: "expires_at", Value: 1}},
		page, pageSize)
}

func (r *mongoRequestRepo) ListExpiredBatch(ctx context.Context, now time.Time, limit int) ([]models.SessionRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     bson.M{"$in": []models.RequestStatus{models.StatusPendingPayment, models.StatusPendingApproval}},
		"expires_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "expires_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.SessionRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoRequestRepo) pageRequests(ctx context.Context, filter bson.M, sort bson.D, page, pageSize int) ([]models.SessionRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := r.requests.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	out := make([]models.SessionRequest, 0, pageSize)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
