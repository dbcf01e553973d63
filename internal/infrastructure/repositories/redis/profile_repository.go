package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisProfileRepository stores profile documents in the users collection,
// keyed by session uid.
type RedisProfileRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisProfileRepository(client *redis.Client) ports.ProfileRepository {
	return &RedisProfileRepository{
		client: client,
		prefix: "vidboard:users:",
	}
}

func (r *RedisProfileRepository) profileKey(id domain.UserID) string {
	return r.prefix + string(id)
}

func (r *RedisProfileRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	data, err := r.client.Get(ctx, r.profileKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile from Redis: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (r *RedisProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, r.profileKey(profile.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set profile in Redis: %w", err)
	}
	return nil
}

// CreateIfAbsent relies on SETNX so that two concurrent bootstraps for the
// same uid race on a single atomic store primitive.
func (r *RedisProfileRepository) CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	created, err := r.client.SetNX(ctx, r.profileKey(profile.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create profile in Redis: %w", err)
	}
	if !created {
		return domain.ErrProfileExists
	}
	return nil
}
