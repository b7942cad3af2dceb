package availabilityRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"slotline/database"
	"slotline/models"
)

// Sentinel errors returned by the repository. Services translate these into
// the HTTP-facing taxonomy so nothing above this layer depends on driver
// error types.
var (
	ErrNotFound          = errors.New("availability: not found")
	ErrSettingsExist     = errors.New("availability: settings already initialized")
	ErrDuplicateOverride = errors.New("availability: override already exists for date")
)

// Repository stores provider availability: settings, weekly rules, and
// date overrides.
type Repository interface {
	EnsureIndexes(ctx context.Context) error

	CreateSettings(ctx context.Context, s *models.AvailabilitySettings) error
	GetSettings(ctx context.Context, providerID string) (*models.AvailabilitySettings, error)
	UpdateSettings(ctx context.Context, s *models.AvailabilitySettings) error

	CreateRule(ctx context.Context, r *models.AvailabilityRule) error
	GetRule(ctx context.Context, providerID, ruleID string) (*models.AvailabilityRule, error)
	ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)
	ListActiveRulesForDay(ctx context.Context, providerID string, day models.Weekday) ([]models.AvailabilityRule, error)
	UpdateRule(ctx context.Context, r *models.AvailabilityRule) error
	DeleteRule(ctx context.Context, providerID, ruleID string) error

	CreateOverride(ctx context.Context, o *models.AvailabilityOverride) error
	GetOverride(ctx context.Context, providerID, overrideID string) (*models.AvailabilityOverride, error)
	GetOverrideByDate(ctx context.Context, providerID, date string) (*models.AvailabilityOverride, error)
	ListOverrides(ctx context.Context, providerID string) ([]models.AvailabilityOverride, error)
	UpdateOverride(ctx context.Context, o *models.AvailabilityOverride) error
	DeleteOverride(ctx context.Context, providerID, overrideID string) error
}

type mongoAvailabilityRepo struct {
	settings  *mongo.Collection
	rules     *mongo.Collection
	overrides *mongo.Collection
}

// NewMongoAvailabilityRepo constructs the MongoDB-backed Repository.
func NewMongoAvailabilityRepo() Repository {
	db := database.DB()
	return &mongoAvailabilityRepo{
		settings:  db.Collection("availability_settings"),
		rules:     db.Collection("availability_rules"),
		overrides: db.Collection("availability_overrides"),
	}
}
