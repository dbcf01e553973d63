package services

import (
	"context"
	"errors"
	"fmt"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"
	"vidboard/pkg/utils"

	"go.uber.org/zap"
)

type bootstrapService struct {
	profiles ports.ProfileRepository
	boards   ports.BoardRepository
	logger   *zap.SugaredLogger
}

func NewBootstrapService(
	profiles ports.ProfileRepository,
	boards ports.BoardRepository,
	logger *zap.SugaredLogger,
) ports.BootstrapService {
	return &bootstrapService{
		profiles: profiles,
		boards:   boards,
		logger:   logger,
	}
}

// Resolve returns the existing profile for the session, or creates the
// default board and a profile referencing it on first sign-in. The board is
// written before the profile so the profile never references a board that
// was never stored; the reverse gap (board without profile after a partial
// failure) is a tolerated low-probability leftover.
func (s *bootstrapService) Resolve(ctx context.Context, session *domain.Session) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByID(ctx, session.UID)
	if err == nil {
		s.logger.Debugw("resolved existing profile",
			"user_id", session.UID,
			"boards", len(profile.Boards),
		)
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("%w: profile lookup: %v", domain.ErrBootstrapFailed, err)
	}

	board := domain.DefaultBoard(domain.BoardID(utils.GenerateBoardID()))
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("%w: create default board: %v", domain.ErrBootstrapFailed, err)
	}

	profile = &domain.UserProfile{
		ID:            session.UID,
		Boards:        []domain.BoardID{board.ID},
		SelectedBoard: board.ID,
		SyncTime:      domain.DefaultSyncTimeMillis,
	}

	if err := s.profiles.CreateIfAbsent(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			// Lost the race to a concurrent bootstrap for the same uid. The
			// stray template board stays unreferenced; serve the winner.
			existing, getErr := s.profiles.GetByID(ctx, session.UID)
			if getErr != nil {
				return nil, fmt.Errorf("%w: reload profile after create race: %v", domain.ErrBootstrapFailed, getErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%w: create profile: %v", domain.ErrBootstrapFailed, err)
	}

	s.logger.Infow("created profile with default board",
		"user_id", session.UID,
		"board_id", board.ID,
	)

	return profile, nil
}
