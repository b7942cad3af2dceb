package sessionRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the confirmed-session indexes. The unique interval
// index is the last line of defense against double booking: even if every
// upstream check drifted, two sessions can never share a provider's slot.
// The unique request reference keeps approval idempotent.
func (r *mongoSessionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_session_id"),
		},
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_request_ref"),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start_time", Value: 1},
				{Key: "end_time", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_interval"),
		},
		{
			Keys: bson.D{
				{Key: "requester_id", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("requester_date_idx"),
		},
	})
	return err
}
