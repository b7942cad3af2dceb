package pricingRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/database"
	"slotline/models"
)

var ErrNotFound = errors.New("pricing: rate not found")

// Repository stores per-provider session rates. Providers without a rate
// fall back to the configured default, so a miss here is not an error for
// callers.
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	GetRate(ctx context.Context, providerID string) (*models.ProviderRate, error)
	UpsertRate(ctx context.Context, rate *models.ProviderRate) error
}

type mongoPricingRepo struct {
	rates *mongo.Collection
}

func NewMongoPricingRepo() Repository {
	return &mongoPricingRepo{rates: database.DB().Collection("provider_rates")}
}

func (r *mongoPricingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.rates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_provider"),
	})
	return err
}

func (r *mongoPricingRepo) GetRate(ctx context.Context, providerID string) (*models.ProviderRate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rate models.ProviderRate
	err := r.rates.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&rate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

func (r *mongoPricingRepo) UpsertRate(ctx context.Context, rate *models.ProviderRate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rate.UpdatedAt = time.Now().UTC()
	_, err := r.rates.UpdateOne(ctx,
		bson.M{"provider_id": rate.ProviderID},
		bson.M{"$set": rate},
		options.Update().SetUpsert(true))
	return err
}
