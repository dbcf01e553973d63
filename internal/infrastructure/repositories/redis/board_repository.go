package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisBoardRepository stores board documents in the boards collection,
// keyed by generated board id.
type RedisBoardRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisBoardRepository(client *redis.Client) ports.BoardRepository {
	return &RedisBoardRepository{
		client: client,
		prefix: "vidboard:boards:",
	}
}

func (r *RedisBoardRepository) boardKey(id domain.BoardID) string {
	return r.prefix + string(id)
}

func (r *RedisBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := r.client.Set(ctx, r.boardKey(board.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set board in Redis: %w", err)
	}
	return nil
}

// FindByIDs issues one MGET; nil slots for missing ids are dropped from the
// result set.
func (r *RedisBoardRepository) FindByIDs(ctx context.Context, ids []domain.BoardID) ([]*domain.Board, error) {
	if len(ids) == 0 {
		return []*domain.Board{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.boardKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget boards from Redis: %w", err)
	}

	boards := make([]*domain.Board, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Missing id: silently omitted.
			continue
		}
		var board domain.Board
		if err := json.Unmarshal([]byte(raw), &board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board: %w", err)
		}
		boards = append(boards, &board)
	}
	return boards, nil
}

// SaveAll queues one SET per board on a transactional pipeline and commits
// them as a single MULTI/EXEC unit: either every board lands or none does.
func (r *RedisBoardRepository) SaveAll(ctx context.Context, boards []*domain.Board) error {
	if len(boards) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, board := range boards {
		data, err := json.Marshal(board)
		if err != nil {
			return fmt.Errorf("failed to marshal board %s: %w", board.ID, err)
		}
		pipe.Set(ctx, r.boardKey(board.ID), data, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to commit board batch: %w", err)
	}
	return nil
}
