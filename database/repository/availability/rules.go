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

func (r *mongoAvailabilityRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.rules.InsertOne(ctx, rule)
	return err
}

func (r *mongoAvailabilityRepo) GetRule(ctx context.Context, providerID, ruleID string) (*models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rule models.AvailabilityRule
	err := r.rules.FindOne(ctx, bson.M{"id": ruleID, "provider_id": providerID}).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *mongoAvailabilityRepo) ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := r.rules.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) ListActiveRulesForDay(ctx context.Context, providerID string, day models.Weekday) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "day_of_week": day, "is_active": true}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.rules.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"day_of_week": rule.DayOfWeek,
		"start_time":  rule.StartTime,
		"end_time":    rule.EndTime,
		"is_active":   rule.IsActive,
		"updated_at":  rule.UpdatedAt,
	}}
	res, err := r.rules.UpdateOne(ctx, bson.M{"id": rule.ID, "provider_id": rule.ProviderID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) DeleteRule(ctx context.Context, providerID, ruleID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.rules.DeleteOne(ctx, bson.M{"id": ruleID, "provider_id": providerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
