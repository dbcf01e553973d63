package identity

import (
	"context"
	"sync"

	"vidboard/internal/core/domain"

	"go.uber.org/zap"
)

// LocalProvider is the development fallback used when no OIDC issuer is
// configured. SignIn publishes a fixed session immediately, with no
// interactive step.
type LocalProvider struct {
	logger *zap.SugaredLogger

	mu       sync.Mutex
	watchers []func(*domain.Session)
	current  *domain.Session
}

func NewLocalProvider(logger *zap.SugaredLogger) *LocalProvider {
	return &LocalProvider{logger: logger}
}

func (p *LocalProvider) Watch(ctx context.Context, handler func(*domain.Session)) {
	p.mu.Lock()
	p.watchers = append(p.watchers, handler)
	current := p.current
	p.mu.Unlock()

	handler(current)
}

func (p *LocalProvider) SignIn(ctx context.Context) error {
	session := &domain.Session{
		UID:         "local-dev",
		DisplayName: "Local Developer",
		Email:       "dev@localhost",
	}

	p.mu.Lock()
	p.current = session
	watchers := append([]func(*domain.Session){}, p.watchers...)
	p.mu.Unlock()

	p.logger.Infow("local sign-in", "user_id", session.UID)
	for _, w := range watchers {
		w(session)
	}
	return nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	watchers := append([]func(*domain.Session){}, p.watchers...)
	p.mu.Unlock()

	for _, w := range watchers {
		w(nil)
	}
	return nil
}
