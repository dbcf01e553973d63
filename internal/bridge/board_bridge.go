package bridge

import (
	"context"

	"vidboard/internal/core/ports"

	"go.uber.org/zap"
)

// BoardBridge serves the board channels against the sync service. Failures
// are diagnostic-only; no command is retried.
type BoardBridge struct {
	boardSync ports.BoardSyncService
	bus       *ChannelBus
	logger    *zap.SugaredLogger
}

func NewBoardBridge(boardSync ports.BoardSyncService, bus *ChannelBus, logger *zap.SugaredLogger) *BoardBridge {
	return &BoardBridge{
		boardSync: boardSync,
		bus:       bus,
		logger:    logger,
	}
}

func (b *BoardBridge) Start() error {
	if err := b.bus.Subscribe(ChannelLoadBoards, b.handleLoadBoards); err != nil {
		return err
	}
	if err := b.bus.Subscribe(ChannelSaveBoards, b.handleSaveBoards); err != nil {
		return err
	}
	if err := b.bus.Subscribe(ChannelSaveProfile, b.handleSaveProfile); err != nil {
		return err
	}
	return b.bus.Subscribe(ChannelCreateBoard, b.handleCreateBoard)
}

func (b *BoardBridge) handleLoadBoards(ctx context.Context, cmd Command) error {
	load, ok := cmd.(LoadBoardsCommand)
	if !ok {
		return nil
	}

	boards, err := b.boardSync.LoadBoards(ctx, load.IDs)
	if err != nil {
		return err
	}
	return b.bus.Send(BoardsLoadedEvent{Boards: boards})
}

func (b *BoardBridge) handleSaveBoards(ctx context.Context, cmd Command) error {
	save, ok := cmd.(SaveBoardsCommand)
	if !ok {
		return nil
	}
	return b.boardSync.SaveBoards(ctx, save.Boards)
}

func (b *BoardBridge) handleSaveProfile(ctx context.Context, cmd Command) error {
	save, ok := cmd.(SaveProfileCommand)
	if !ok {
		return nil
	}
	return b.boardSync.SaveProfile(ctx, save.Profile)
}

func (b *BoardBridge) handleCreateBoard(ctx context.Context, cmd Command) error {
	if _, ok := cmd.(CreateBoardCommand); !ok {
		return nil
	}

	board, err := b.boardSync.CreateBoard(ctx)
	if err != nil {
		return err
	}
	return b.bus.Send(BoardCreatedEvent{Board: board})
}
