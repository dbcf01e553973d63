package ports

import (
	"context"

	"vidboard/internal/core/domain"
)

type BootstrapService interface {
	// Resolve returns the profile for the session, creating the profile and
	// its default board on first sign-in. Idempotent per session uid.
	Resolve(ctx context.Context, session *domain.Session) (*domain.UserProfile, error)
}

type BoardSyncService interface {
	LoadBoards(ctx context.Context, ids []domain.BoardID) ([]*domain.Board, error)
	SaveBoards(ctx context.Context, boards []*domain.Board) error
	SaveProfile(ctx context.Context, profile *domain.UserProfile) error
	CreateBoard(ctx context.Context) (*domain.Board, error)
}
