package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotline/models"
)

func (r *mongoAvailabilityRepo) CreateSettings(ctx context.Context, s *models.AvailabilitySettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.settings.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSettingsExist
		}
		return err
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetSettings(ctx context.Context, providerID string) (*models.AvailabilitySettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.AvailabilitySettings
	err := r.settings.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoAvailabilityRepo) UpdateSettings(ctx context.Context, s *models.AvailabilitySettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"slot_duration_minutes": s.SlotDurationMinutes,
		"break_minutes":         s.BreakMinutes,
		"timezone":              s.Timezone,
		"updated_at":            s.UpdatedAt,
	}}
	res, err := r.settings.UpdateOne(ctx, bson.M{"provider_id": s.ProviderID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
