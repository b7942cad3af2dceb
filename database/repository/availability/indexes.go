package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing the availability invariants:
// one settings document per provider, one override per provider per date.
// Rule overlap cannot be expressed as an index and is validated in the
// service layer.
func (r *mongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.settings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_provider"),
	})
	if err != nil {
		return fmt.Errorf("failed to create settings indexes: %w", err)
	}

	_, err = r.rules.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "day_of_week", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("provider_day_active_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create rule indexes: %w", err)
	}

	_, err = r.overrides.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_provider_date"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create override indexes: %w", err)
	}
	return nil
}
