package bridge

import (
	"context"
	"errors"
	"sync"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"

	"go.uber.org/zap"
)

// AuthState is the bridge-side view of the sign-in lifecycle.
type AuthState string

const (
	StateSignedOut      AuthState = "signed_out"
	StateAuthenticating AuthState = "authenticating"
	StateSignedIn       AuthState = "signed_in"
)

// AuthBridge watches identity-provider state, serves the signIn/signOut
// channels and drives profile bootstrap exactly once per session uid.
type AuthBridge struct {
	identity  ports.IdentityProvider
	bootstrap ports.BootstrapService
	boardSync ports.BoardSyncService
	bus       *ChannelBus
	logger    *zap.SugaredLogger

	mu           sync.Mutex
	state        AuthState
	bootstrapped map[domain.UserID]bool
}

func NewAuthBridge(
	identity ports.IdentityProvider,
	bootstrap ports.BootstrapService,
	boardSync ports.BoardSyncService,
	bus *ChannelBus,
	logger *zap.SugaredLogger,
) *AuthBridge {
	return &AuthBridge{
		identity:     identity,
		bootstrap:    bootstrap,
		boardSync:    boardSync,
		bus:          bus,
		logger:       logger,
		state:        StateSignedOut,
		bootstrapped: make(map[domain.UserID]bool),
	}
}

// Start subscribes the command channels and installs the persistent
// auth-state watcher. The watcher has no unsubscribe path.
func (b *AuthBridge) Start(ctx context.Context) error {
	if err := b.bus.Subscribe(ChannelSignIn, b.handleSignIn); err != nil {
		return err
	}
	if err := b.bus.Subscribe(ChannelSignOut, b.handleSignOut); err != nil {
		return err
	}

	b.identity.Watch(ctx, func(session *domain.Session) {
		b.onAuthStateChanged(ctx, session)
	})
	return nil
}

// State returns the current lifecycle state.
func (b *AuthBridge) State() AuthState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *AuthBridge) handleSignIn(ctx context.Context, _ Command) error {
	b.setState(StateAuthenticating)

	// The interactive flow suspends until the provider calls back; only
	// this continuation waits, never the dispatch loop.
	go func() {
		err := b.identity.SignIn(context.Background())
		if err == nil {
			// Success arrives through the auth-state watcher.
			return
		}

		b.setState(StateSignedOut)
		if errors.Is(err, domain.ErrLoginCancelled) {
			// Not an error: a normal terminal transition. No logout event.
			b.logger.Infow("sign-in cancelled by user")
			b.bus.Send(LoginCancelledEvent{})
			return
		}
		b.logger.Errorw("sign-in failed", "error", err)
	}()

	return nil
}

func (b *AuthBridge) handleSignOut(ctx context.Context, _ Command) error {
	return b.identity.SignOut(ctx)
}

func (b *AuthBridge) onAuthStateChanged(ctx context.Context, session *domain.Session) {
	if session == nil {
		b.mu.Lock()
		wasSignedIn := b.state == StateSignedIn
		b.state = StateSignedOut
		b.mu.Unlock()

		if wasSignedIn {
			b.bus.Send(LogoutEvent{})
		}
		return
	}

	b.setState(StateSignedIn)
	b.bus.Send(LoginEvent{Session: session})

	// Duplicate signed-in notifications for the same uid must not re-run
	// bootstrap; only the first per uid proceeds. A failed run clears the
	// mark so a later notification can attempt again.
	b.mu.Lock()
	if b.bootstrapped[session.UID] {
		b.mu.Unlock()
		return
	}
	b.bootstrapped[session.UID] = true
	b.mu.Unlock()

	profile, err := b.bootstrap.Resolve(ctx, session)
	if err != nil {
		b.logger.Errorw("bootstrap failed", "user_id", session.UID, "error", err)
		b.mu.Lock()
		delete(b.bootstrapped, session.UID)
		b.mu.Unlock()
		return
	}

	boards, err := b.boardSync.LoadBoards(ctx, profile.Boards)
	if err != nil {
		b.logger.Errorw("failed to load boards after bootstrap",
			"user_id", session.UID,
			"error", err,
		)
		return
	}

	b.bus.Send(BoardsLoadedEvent{Boards: boards})
}

func (b *AuthBridge) setState(state AuthState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}
