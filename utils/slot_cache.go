package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"slotline/models"
)

const SlotCachePrefix = "slots:"

func slotCacheKey(providerID, date string) string {
	return SlotCachePrefix + providerID + ":" + date
}

// SaveSlotList caches a generated slot list in Redis with a TTL. Staleness
// is tolerated: the request-creation path re-runs the generator against the
// store before committing anything.
func SaveSlotList(client *redis.Client, list *models.SlotList, ttl time.Duration) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal slot list: %w", err)
	}
	ctx := context.Background()
	if err := client.Set(ctx, slotCacheKey(list.ProviderID, list.Date), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache slot list: %w", err)
	}
	return nil
}

// GetSlotList retrieves a cached slot list. A cache miss surfaces as
// redis.Nil from the driver.
func GetSlotList(client *redis.Client, providerID, date string) (*models.SlotList, error) {
	ctx := context.Background()
	data, err := client.Get(ctx, slotCacheKey(providerID, date)).Result()
	if err != nil {
		return nil, err
	}
	var list models.SlotList
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot list: %w", err)
	}
	return &list, nil
}

// InvalidateSlotDate drops the cached list for one provider and date. Used
// when an override changes a single day.
func InvalidateSlotDate(client *redis.Client, providerID, date string) error {
	ctx := context.Background()
	return client.Del(ctx, slotCacheKey(providerID, date)).Err()
}

// InvalidateProviderSlots drops every cached list for a provider. Used when
// settings or weekly rules change, since those touch all dates.
func InvalidateProviderSlots(client *redis.Client, providerID string) error {
	ctx := context.Background()
	iter := client.Scan(ctx, 0, SlotCachePrefix+providerID+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
