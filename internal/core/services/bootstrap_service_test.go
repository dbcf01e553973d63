package services_test

import (
	"context"
	"errors"
	"testing"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) FindByIDs(ctx context.Context, ids []domain.BoardID) ([]*domain.Board, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Board), args.Error(1)
}

func (m *MockBoardRepository) SaveAll(ctx context.Context, boards []*domain.Board) error {
	args := m.Called(ctx, boards)
	return args.Error(0)
}

func testSession() *domain.Session {
	return &domain.Session{
		UID:         "u1",
		DisplayName: "Test User",
		Email:       "test@example.com",
	}
}

func TestResolveReturnsExistingProfileUnchanged(t *testing.T) {
	profiles := new(MockProfileRepository)
	boards := new(MockBoardRepository)

	existing := &domain.UserProfile{
		ID:            "u1",
		Boards:        []domain.BoardID{"b1", "b2"},
		SelectedBoard: "b2",
		SyncTime:      domain.DefaultSyncTimeMillis,
	}
	profiles.On("GetByID", mock.Anything, domain.UserID("u1")).Return(existing, nil)

	svc := services.NewBootstrapService(profiles, boards, zap.NewNop().Sugar())

	profile, err := svc.Resolve(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, existing, profile)

	// No side effects on the happy lookup path.
	boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	profiles.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestResolveCreatesDefaultBoardAndProfile(t *testing.T) {
	profiles := new(MockProfileRepository)
	boards := new(MockBoardRepository)

	profiles.On("GetByID", mock.Anything, domain.UserID("u1")).Return(nil, domain.ErrProfileNotFound)

	var createdBoard *domain.Board
	boards.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		createdBoard = args.Get(1).(*domain.Board)
	}).Return(nil)
	profiles.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(nil)

	svc := services.NewBootstrapService(profiles, boards, zap.NewNop().Sugar())

	profile, err := svc.Resolve(context.Background(), testSession())
	require.NoError(t, err)
	require.NotNil(t, createdBoard)

	assert.Equal(t, domain.UserID("u1"), profile.ID)
	assert.Equal(t, []domain.BoardID{createdBoard.ID}, profile.Boards)
	assert.Equal(t, createdBoard.ID, profile.SelectedBoard)
	assert.True(t, profile.OwnsBoard(profile.SelectedBoard))
	assert.EqualValues(t, domain.DefaultSyncTimeMillis, profile.SyncTime)

	assert.Equal(t, "First Board", createdBoard.Name)
	require.Len(t, createdBoard.Stacks, 1)
	assert.Equal(t, "STACK_1", createdBoard.Stacks[0].ID)
	require.Len(t, createdBoard.Stacks[0].Items, 1)
	assert.Equal(t, "ITEM_1", createdBoard.Stacks[0].Items[0].ID)
}

func TestResolveIsIdempotentPerSession(t *testing.T) {
	profiles := new(MockProfileRepository)
	boards := new(MockBoardRepository)

	var stored *domain.UserProfile
	profiles.On("GetByID", mock.Anything, domain.UserID("u1")).Return(nil, domain.ErrProfileNotFound).Once()
	boards.On("Create", mock.Anything, mock.Anything).Return(nil)
	profiles.On("CreateIfAbsent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.UserProfile)
	}).Return(nil)

	svc := services.NewBootstrapService(profiles, boards, zap.NewNop().Sugar())

	first, err := svc.Resolve(context.Background(), testSession())
	require.NoError(t, err)
	require.NotNil(t, stored)

	// Second lookup finds the document written by the first call.
	profiles.On("GetByID", mock.Anything, domain.UserID("u1")).Return(stored, nil)

	second, err := svc.Resolve(context.Background(), testSession())
	require.NoError(t, err)

	assert.Equal(t, first.Boards, second.Boards)
	assert.Equal(t, first.SelectedBoard, second.SelectedBoard)
	boards.AssertNumberOfCalls(t, "Create", 1)
}

func TestResolveBoardWriteFailure(t *testing.T) {
	profiles := new(MockProfileRepository)
	boards := new(MockBoardRepository)

	profiles.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrProfileNotFound)
	boards.On("Create", mock.Anything, mock.Anything).Return(errors.New("store unavailable"))

	svc := services.NewBootstrapService(profiles, boards, zap.NewNop().Sugar())

	_, err := svc.Resolve(context.Background(), testSession())
	assert.ErrorIs(t, err, domain.ErrBootstrapFailed)

	// The profile must never be written after the board write failed.
	profiles.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestResolveLookupFailure(t *testing.T) {
	profiles := new(MockProfileRepository)
	boards := new(MockBoardRepository)

	profiles.On("GetByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	svc := services.NewBootstrapService(profiles, boards, zap.NewNop().Sugar())

	_, err := svc.Resolve(context.Background(), testSession())
	assert.ErrorIs(t, err, domain.ErrBootstrapFailed)
	boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveLosesCreateRace(t *testing.T) {
	profiles := new(MockProfileRepository)
	boards := new(MockBoardRepository)

	winner := &domain.UserProfile{
		ID:            "u1",
		Boards:        []domain.BoardID{"b-winner"},
		SelectedBoard: "b-winner",
	}

	profiles.On("GetByID", mock.Anything, domain.UserID("u1")).Return(nil, domain.ErrProfileNotFound).Once()
	boards.On("Create", mock.Anything, mock.Anything).Return(nil)
	profiles.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(domain.ErrProfileExists)
	profiles.On("GetByID", mock.Anything, domain.UserID("u1")).Return(winner, nil)

	svc := services.NewBootstrapService(profiles, boards, zap.NewNop().Sugar())

	profile, err := svc.Resolve(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, winner, profile)
}
