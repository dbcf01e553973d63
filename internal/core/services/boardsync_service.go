package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"
	"vidboard/pkg/cache"
	"vidboard/pkg/utils"

	"go.uber.org/zap"
)

type boardSyncService struct {
	boards   ports.BoardRepository
	profiles ports.ProfileRepository
	cache    *cache.Cache
	logger   *zap.SugaredLogger
}

// NewBoardSyncService builds the board load/save service. cacheTTL bounds
// how long a loaded board may be served without hitting the store again;
// saves always write through.
func NewBoardSyncService(
	boards ports.BoardRepository,
	profiles ports.ProfileRepository,
	cacheTTL time.Duration,
	logger *zap.SugaredLogger,
) ports.BoardSyncService {
	return &boardSyncService{
		boards:   boards,
		profiles: profiles,
		cache:    cache.NewCache(cacheTTL),
		logger:   logger,
	}
}

func boardCacheKey(id domain.BoardID) string {
	return "board:" + string(id)
}

// LoadBoards returns the subset of boards that exist for the requested ids.
// Missing ids are omitted from the result, not reported as errors.
func (s *boardSyncService) LoadBoards(ctx context.Context, ids []domain.BoardID) ([]*domain.Board, error) {
	var (
		result = make([]*domain.Board, 0, len(ids))
		misses []domain.BoardID
	)

	for _, id := range ids {
		if cached, ok := s.cache.Get(boardCacheKey(id)); ok {
			result = append(result, cached.(*domain.Board))
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		loaded, err := s.boards.FindByIDs(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("failed to load boards: %w", err)
		}
		for _, board := range loaded {
			s.cache.Set(boardCacheKey(board.ID), board)
			result = append(result, board)
		}
	}

	return result, nil
}

// SaveBoards commits all boards as a single atomic batch. An empty list is a
// no-op with no writes and no log output.
func (s *boardSyncService) SaveBoards(ctx context.Context, boards []*domain.Board) error {
	if len(boards) == 0 {
		return nil
	}

	if err := s.boards.SaveAll(ctx, boards); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}

	names := make([]string, len(boards))
	for i, board := range boards {
		s.cache.Set(boardCacheKey(board.ID), board)
		names[i] = board.Name
	}

	s.logger.Infow("saved boards",
		"count", len(boards),
		"names", strings.Join(names, ", "),
	)

	return nil
}

func (s *boardSyncService) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	if err := s.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.ID, err)
	}

	s.logger.Infow("saved profile",
		"user_id", profile.ID,
		"boards", len(profile.Boards),
		"selected_board", profile.SelectedBoard,
	)

	return nil
}

// CreateBoard allocates and persists an empty board. Appending the new id to
// a profile is the caller's separate SaveProfile step.
func (s *boardSyncService) CreateBoard(ctx context.Context) (*domain.Board, error) {
	board := &domain.Board{
		ID:     domain.BoardID(utils.GenerateBoardID()),
		Name:   "First Board",
		Stacks: []domain.Stack{},
	}

	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.cache.Set(boardCacheKey(board.ID), board)
	s.logger.Infow("created board", "board_id", board.ID)

	return board, nil
}
