package bridge_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"vidboard/internal/bridge"
	"vidboard/internal/core/domain"
	"vidboard/internal/core/services"
	"vidboard/internal/infrastructure/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIdentity drives auth-state notifications by hand and scripts the
// outcome of the interactive sign-in flow.
type fakeIdentity struct {
	mu        sync.Mutex
	handlers  []func(session *domain.Session)
	signInErr error
	signIns   int
	signOuts  int
}

func (f *fakeIdentity) Watch(ctx context.Context, handler func(session *domain.Session)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, handler)
}

func (f *fakeIdentity) SignIn(ctx context.Context) error {
	f.mu.Lock()
	f.signIns++
	err := f.signInErr
	f.mu.Unlock()
	return err
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOuts++
	f.mu.Unlock()
	f.emit(nil)
	return nil
}

func (f *fakeIdentity) emit(session *domain.Session) {
	f.mu.Lock()
	handlers := append([]func(*domain.Session){}, f.handlers...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(session)
	}
}

type authFixture struct {
	identity *fakeIdentity
	bus      *bridge.ChannelBus
	sink     *captureSink
	auth     *bridge.AuthBridge
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	logger := zap.NewNop().Sugar()
	profiles := memory.NewMemoryProfileRepository()
	boards := memory.NewMemoryBoardRepository()
	bootstrap := services.NewBootstrapService(profiles, boards, logger)
	boardSync := services.NewBoardSyncService(boards, profiles, time.Minute, logger)

	identity := &fakeIdentity{}
	bus := bridge.NewChannelBus(logger)
	sink := &captureSink{}
	bus.AttachSink(sink)

	auth := bridge.NewAuthBridge(identity, bootstrap, boardSync, bus, logger)
	require.NoError(t, auth.Start(context.Background()))

	return &authFixture{identity: identity, bus: bus, sink: sink, auth: auth}
}

func TestSignInDeliversLoginAndBoards(t *testing.T) {
	fx := newAuthFixture(t)

	fx.bus.Dispatch(context.Background(), bridge.SignInCommand{})
	assert.Eventually(t, func() bool {
		fx.identity.mu.Lock()
		defer fx.identity.mu.Unlock()
		return fx.identity.signIns == 1
	}, time.Second, 5*time.Millisecond)

	fx.identity.emit(&domain.Session{UID: "u1", DisplayName: "User One"})

	logins := fx.sink.byChannel(bridge.ChannelLogin)
	require.Len(t, logins, 1)

	var session map[string]any
	require.NoError(t, json.Unmarshal(logins[0].Payload, &session))
	assert.Equal(t, "u1", session["uid"])

	loaded := fx.sink.byChannel(bridge.ChannelBoardsLoaded)
	require.Len(t, loaded, 1)

	var boards []*domain.Board
	require.NoError(t, json.Unmarshal(loaded[0].Payload, &boards))
	require.Len(t, boards, 1)
	assert.Equal(t, "First Board", boards[0].Name)
	require.Len(t, boards[0].Stacks, 1)
	assert.Equal(t, "STACK_1", boards[0].Stacks[0].ID)

	assert.Equal(t, bridge.StateSignedIn, fx.auth.State())
}

func TestDuplicateNotificationBootstrapsOnce(t *testing.T) {
	fx := newAuthFixture(t)

	session := &domain.Session{UID: "u1"}
	fx.identity.emit(session)
	fx.identity.emit(session)

	// Login is relayed for every notification, bootstrap runs once.
	assert.Equal(t, 2, fx.sink.count(bridge.ChannelLogin))
	assert.Equal(t, 1, fx.sink.count(bridge.ChannelBoardsLoaded))
}

func TestCancelledSignInEmitsLoginCancelledOnly(t *testing.T) {
	fx := newAuthFixture(t)
	fx.identity.signInErr = domain.ErrLoginCancelled

	fx.bus.Dispatch(context.Background(), bridge.SignInCommand{})

	assert.Eventually(t, func() bool {
		return fx.sink.count(bridge.ChannelLoginCancelled) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Zero(t, fx.sink.count(bridge.ChannelLogout))
	assert.Zero(t, fx.sink.count(bridge.ChannelLogin))
	assert.Equal(t, bridge.StateSignedOut, fx.auth.State())
}

func TestSignOutEmitsLogoutOnlyWhenSignedIn(t *testing.T) {
	fx := newAuthFixture(t)

	// A signed-out notification before any sign-in stays silent.
	fx.identity.emit(nil)
	assert.Zero(t, fx.sink.count(bridge.ChannelLogout))

	fx.identity.emit(&domain.Session{UID: "u1"})
	require.Equal(t, bridge.StateSignedIn, fx.auth.State())

	fx.bus.Dispatch(context.Background(), bridge.SignOutCommand{})

	logouts := fx.sink.byChannel(bridge.ChannelLogout)
	require.Len(t, logouts, 1)
	assert.JSONEq(t, `"ignored value"`, string(logouts[0].Payload))
	assert.Equal(t, bridge.StateSignedOut, fx.auth.State())

	// A second signed-out notification has nothing left to report.
	fx.identity.emit(nil)
	assert.Equal(t, 1, fx.sink.count(bridge.ChannelLogout))
}
