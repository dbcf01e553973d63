package memory

import (
	"context"
	"sync"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"
)

type MemoryProfileRepository struct {
	profiles map[domain.UserID]*domain.UserProfile
	mu       sync.RWMutex
}

func NewMemoryProfileRepository() ports.ProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[domain.UserID]*domain.UserProfile),
	}
}

func (r *MemoryProfileRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[id]
	if !exists {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (r *MemoryProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.ID] = profile
	return nil
}

func (r *MemoryProfileRepository) CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.ID]; exists {
		return domain.ErrProfileExists
	}
	r.profiles[profile.ID] = profile
	return nil
}
