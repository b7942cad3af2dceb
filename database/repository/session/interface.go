package sessionRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"slotline/database"
	"slotline/models"
)

var ErrNotFound = errors.New("session: not found")

// Repository reads confirmed sessions. Writes happen in the request
// repository's approval transaction; this side serves lookups, listings and
// the interval checks the slot generator and approval path rely on.
type Repository interface {
	EnsureIndexes(ctx context.Context) error

	GetByID(ctx context.Context, id string) (*models.ConfirmedSession, error)
	// ListByProviderAndDate feeds the slot generator's confirmed-session
	// subtraction for one calendar day.
	ListByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ConfirmedSession, error)
	// ExistsForInterval reports whether a confirmed session already occupies
	// the exact interval.
	ExistsForInterval(ctx context.Context, providerID, date, startTime, endTime string) (bool, error)

	ListByRequester(ctx context.Context, requesterID string, page, pageSize int) ([]models.ConfirmedSession, int64, error)
	ListByProvider(ctx context.Context, providerID string, page, pageSize int) ([]models.ConfirmedSession, int64, error)
	// ListAdmin returns all sessions narrowed by the filter; zero-value
	// filter fields match everything.
	ListAdmin(ctx context.Context, filter AdminFilter, page, pageSize int) ([]models.ConfirmedSession, int64, error)
}

// AdminFilter narrows the admin session listing. Dates are "YYYY-MM-DD"
// strings, so the range bounds compare lexicographically.
type AdminFilter struct {
	ProviderID  string
	RequesterID string
	FromDate    string
	ToDate      string
}

type mongoSessionRepo struct {
	sessions *mongo.Collection
}

func NewMongoSessionRepo() Repository {
	return &mongoSessionRepo{sessions: database.DB().Collection("confirmed_sessions")}
}
