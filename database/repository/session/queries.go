package sessionRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/models"
)

func (r *mongoSessionRepo) GetByID(ctx context.Context, id string) (*models.ConfirmedSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.ConfirmedSession
	err := r.sessions.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *mongoSessionRepo) ListByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ConfirmedSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.sessions.Find(ctx, bson.M{"provider_id": providerID, "date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.ConfirmedSession
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoSessionRepo) ExistsForInterval(ctx context.Context, providerID, date, startTime, endTime string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.sessions.CountDocuments(ctx, bson.M{
		"provider_id": providerID,
		"date":        date,
		"start_time":  startTime,
		"end_time":    endTime,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoSessionRepo) ListByRequester(ctx context.Context, requesterID string, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	return r.pageSessions(ctx, bson.M{"requester_id": requesterID}, page, pageSize)
}

func (r *mongoSessionRepo) ListByProvider(ctx context.Context, providerID string, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	return r.pageSessions(ctx, bson.M{"provider_id": providerID}, page, pageSize)
}

func (r *mongoSessionRepo) ListAdmin(ctx context.Context, filter AdminFilter, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	query := bson.M{}
	if filter.ProviderID != "" {
		query["provider_id"] = filter.ProviderID
	}
	if filter.RequesterID != "" {
		query["requester_id"] = filter.RequesterID
	}
	dateRange := bson.M{}
	if filter.FromDate != "" {
		dateRange["$gte"] = filter.FromDate
	}
	if filter.ToDate != "" {
		dateRange["$lte"] = filter.ToDate
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	return r.pageSessions(ctx, query, page, pageSize)
}

func (r *mongoSessionRepo) pageSessions(ctx context.Context, filter bson.M, page, pageSize int) ([]models.ConfirmedSession, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := r.sessions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start_time", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	out := make([]models.ConfirmedSession, 0, pageSize)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
