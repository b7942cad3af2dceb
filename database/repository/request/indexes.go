package requestRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the request and lock indexes. The unique interval
// index on blocked_slots is the arbiter for concurrent requests: whichever
// insert lands second gets a duplicate-key error. Lock expiry is handled in
// application transactions, not a TTL monitor, so releases stay atomic with
// the status change they belong to.
func (r *mongoRequestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.requests.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_request_id"),
		},
		{
			Keys: bson.D{
				{Key: "requester_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("requester_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("provider_created_idx"),
		},
		{
			// Serves the admin queue and the reaper's deadline scan.
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "expires_at", Value: 1},
			},
			Options: options.Index().SetName("status_deadline_idx"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.locks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_lock_id"),
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
			Keys:    bson.D{{Key: "session_request_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_request_ref"),
		},
	})
	return err
}
