package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"placemate/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService is a best-effort read cache. Errors are reported to callers so
// they can log them, but cache failures must never fail a request.
type CacheService interface {
	GetPlace(ctx context.Context, placeID uuid.UUID) (*models.Place, error)
	SetPlace(ctx context.Context, place *models.Place, ttl time.Duration) error
	DeletePlace(ctx context.Context, placeID uuid.UUID) error

	GetCategories(ctx context.Context) ([]*models.Category, error)
	SetCategories(ctx context.Context, categories []*models.Category, ttl time.Duration) error
	InvalidateCategories(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both host:port and redis://host:port forms.
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("redis ping failed, continuing without warm cache", "addr", parsedAddr, "error", err)
	}

	return &redisCacheService{client: client}
}

func placeKey(placeID uuid.UUID) string {
	return fmt.Sprintf("placemate:place:%s", placeID.String())
}

const categoriesKey = "placemate:categories"

func (r *redisCacheService) GetPlace(ctx context.Context, placeID uuid.UUID) (*models.Place, error) {
	data, err := r.client.Get(ctx, placeKey(placeID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var place models.Place
	if err := json.Unmarshal(data, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *redisCacheService) SetPlace(ctx context.Context, place *models.Place, ttl time.Duration) error {
	data, err := json.Marshal(place)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, placeKey(place.ID), data, ttl).Err()
}

func (r *redisCacheService) DeletePlace(ctx context.Context, placeID uuid.UUID) error {
	return r.client.Del(ctx, placeKey(placeID)).Err()
}

func (r *redisCacheService) GetCategories(ctx context.Context) ([]*models.Category, error) {
	data, err := r.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var categories []*models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *redisCacheService) SetCategories(ctx context.Context, categories []*models.Category, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoriesKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateCategories(ctx context.Context) error {
	return r.client.Del(ctx, categoriesKey).Err()
}
