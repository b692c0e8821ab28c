package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staybnb/staybnb-backend/internal/models"
)

var RedisClient *redis.Client

const (
	propertyListKey = "properties:all"
	propertyListTTL = 5 * time.Minute
	propertyTTL     = time.Hour
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheProperties stores the full property catalog in Redis
func CacheProperties(ctx context.Context, properties []models.Property) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, propertyListKey, data, propertyListTTL).Err()
}

// GetCachedProperties retrieves the property catalog from Redis
func GetCachedProperties(ctx context.Context) ([]models.Property, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, propertyListKey).Result()
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal([]byte(data), &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// CacheProperty stores a single property in Redis
func CacheProperty(ctx context.Context, property *models.Property) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("property:%d", property.ID)
	return RedisClient.Set(ctx, key, data, propertyTTL).Err()
}

// GetCachedProperty retrieves a single property from Redis
func GetCachedProperty(ctx context.Context, propertyID uint) (*models.Property, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	key := fmt.Sprintf("property:%d", propertyID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var property models.Property
	if err := json.Unmarshal([]byte(data), &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// InvalidateProperty removes a property and the catalog list from the cache
func InvalidateProperty(ctx context.Context, propertyID uint) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("property:%d", propertyID)
	return RedisClient.Del(ctx, key, propertyListKey).Err()
}
