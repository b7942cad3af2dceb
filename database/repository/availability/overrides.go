package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/models"
)

func (r *mongoAvailabilityRepo) CreateOverride(ctx context.Context, o *models.AvailabilityOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.overrides.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOverride
		}
		return err
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetOverride(ctx context.Context, providerID, overrideID string) (*models.AvailabilityOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o models.AvailabilityOverride
	err := r.overrides.FindOne(ctx, bson.M{"id": overrideID, "provider_id": providerID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *mongoAvailabilityRepo) GetOverrideByDate(ctx context.Context, providerID, date string) (*models.AvailabilityOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o models.AvailabilityOverride
	err := r.overrides.FindOne(ctx, bson.M{"provider_id": providerID, "date": date}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *mongoAvailabilityRepo) ListOverrides(ctx context.Context, providerID string) ([]models.AvailabilityOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.overrides.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var overrides []models.AvailabilityOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *mongoAvailabilityRepo) UpdateOverride(ctx context.Context, o *models.AvailabilityOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"type":       o.Type,
		"start_time": o.StartTime,
		"end_time":   o.EndTime,
		"reason":     o.Reason,
		"updated_at": o.UpdatedAt,
	}}
	res, err := r.overrides.UpdateOne(ctx, bson.M{"id": o.ID, "provider_id": o.ProviderID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) DeleteOverride(ctx context.Context, providerID, overrideID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.overrides.DeleteOne(ctx, bson.M{"id": overrideID, "provider_id": providerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
