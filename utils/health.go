package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest liveness snapshot of the external stores.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checked_at"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor probes Mongo and Redis periodically and keeps the
// in-memory snapshot fresh until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, mongoClient *mongo.Client, redisClient *redis.Client) {
	probeHealth(ctx, mongoClient, redisClient)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeHealth(ctx, mongoClient, redisClient)
			}
		}
	}()
}

func probeHealth(ctx context.Context, mongoClient *mongo.Client, redisClient *redis.Client) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now()}
	if mongoClient != nil {
		status.Mongo = mongoClient.Ping(probeCtx, nil) == nil
	}
	if redisClient != nil {
		status.Redis = redisClient.Ping(probeCtx).Err() == nil
	}

	healthMu.Lock()
	currentHealth = status
	healthMu.Unlock()
}
