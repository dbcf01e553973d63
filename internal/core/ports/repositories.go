package ports

import (
	"context"

	"vidboard/internal/core/domain"
)

type ProfileRepository interface {
	// GetByID returns the profile keyed by id, or domain.ErrProfileNotFound.
	GetByID(ctx context.Context, id domain.UserID) (*domain.UserProfile, error)
	// Save upserts the profile document keyed by profile.ID.
	Save(ctx context.Context, profile *domain.UserProfile) error
	// CreateIfAbsent atomically creates the profile unless one already
	// exists for its id. Returns domain.ErrProfileExists when the document
	// was already there.
	CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error
}

type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	// FindByIDs returns the boards whose id is a member of ids. Missing ids
	// are silently omitted from the result, never an error.
	FindByIDs(ctx context.Context, ids []domain.BoardID) ([]*domain.Board, error)
	// SaveAll commits one write per board as a single all-or-nothing batch.
	SaveAll(ctx context.Context, boards []*domain.Board) error
}
