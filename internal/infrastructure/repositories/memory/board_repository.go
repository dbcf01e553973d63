package memory

import (
	"context"
	"fmt"
	"sync"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"
)

type MemoryBoardRepository struct {
	boards map[domain.BoardID]*domain.Board
	mu     sync.RWMutex
}

func NewMemoryBoardRepository() ports.BoardRepository {
	return &MemoryBoardRepository{
		boards: make(map[domain.BoardID]*domain.Board),
	}
}

func (r *MemoryBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.ID]; exists {
		return fmt.Errorf("board already exists: %s", board.ID)
	}
	r.boards[board.ID] = board
	return nil
}

func (r *MemoryBoardRepository) FindByIDs(ctx context.Context, ids []domain.BoardID) ([]*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make([]*domain.Board, 0, len(ids))
	for _, id := range ids {
		if board, exists := r.boards[id]; exists {
			found = append(found, board)
		}
	}
	return found, nil
}

// SaveAll applies every board under one lock acquisition: no interleaved
// reader ever observes a partially applied batch.
func (r *MemoryBoardRepository) SaveAll(ctx context.Context, boards []*domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, board := range boards {
		if board.ID == "" {
			return fmt.Errorf("board with empty id in batch")
		}
	}
	for _, board := range boards {
		r.boards[board.ID] = board
	}
	return nil
}
