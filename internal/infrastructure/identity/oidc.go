package identity

import (
	"context"
	"fmt"
	"sync"

	"vidboard/internal/core/domain"
	"vidboard/pkg/config"
	"vidboard/pkg/utils"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OIDCProvider implements the identity-provider port over an OIDC issuer.
// The interactive part of the flow runs through the HTTP login/callback
// handlers; this type tracks pending flows and fans session changes out to
// auth-state watchers.
type OIDCProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth    oauth2.Config
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	watchers []func(*domain.Session)
	current  *domain.Session
	pending  map[string]chan error
}

func NewOIDCProvider(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Identity.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init OIDC provider: %w", err)
	}

	return &OIDCProvider{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.Identity.ClientID}),
		oauth: oauth2.Config{
			ClientID:     cfg.Identity.ClientID,
			ClientSecret: cfg.Identity.ClientSecret,
			RedirectURL:  cfg.Identity.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		logger:  logger,
		pending: make(map[string]chan error),
	}, nil
}

// Watch registers a persistent auth-state listener and immediately notifies
// it of the current state, signed-out included.
func (p *OIDCProvider) Watch(ctx context.Context, handler func(*domain.Session)) {
	p.mu.Lock()
	p.watchers = append(p.watchers, handler)
	current := p.current
	p.mu.Unlock()

	handler(current)
}

// SignIn opens a pending interactive flow and blocks until the HTTP
// callback completes or cancels it. Success itself is delivered through
// Watch; cancellation surfaces as domain.ErrLoginCancelled.
func (p *OIDCProvider) SignIn(ctx context.Context) error {
	state := utils.GenerateID("state")
	done := make(chan error, 1)

	p.mu.Lock()
	p.pending[state] = done
	p.mu.Unlock()

	p.logger.Infow("sign-in flow started", "state", state, "url", p.oauth.AuthCodeURL(state))

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.pending, state)
		p.mu.Unlock()
		return ctx.Err()
	}
}

func (p *OIDCProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	watchers := append([]func(*domain.Session){}, p.watchers...)
	p.mu.Unlock()

	for _, w := range watchers {
		w(nil)
	}
	return nil
}

// AuthCodeURL returns the provider redirect URL for a login request. The
// state must belong to a pending SignIn.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// PendingState returns the state of an open sign-in flow, if any. With one
// UI client there is at most one.
func (p *OIDCProvider) PendingState() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for state := range p.pending {
		return state, true
	}
	return "", false
}

// HasPending reports whether state belongs to an open sign-in flow.
func (p *OIDCProvider) HasPending(state string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[state]
	return ok
}

// CompleteSignIn exchanges the authorization code, verifies the ID token
// and publishes the resulting session to every watcher.
func (p *OIDCProvider) CompleteSignIn(ctx context.Context, state, code string) (*domain.Session, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		p.resolvePending(state, fmt.Errorf("code exchange failed: %w", err))
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		err := fmt.Errorf("token response missing id_token")
		p.resolvePending(state, err)
		return nil, err
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		p.resolvePending(state, fmt.Errorf("id token verification failed: %w", err))
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
		Email   string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		p.resolvePending(state, err)
		return nil, fmt.Errorf("failed to parse id token claims: %w", err)
	}

	session := &domain.Session{
		UID:         domain.UserID(claims.Sub),
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
		Email:       claims.Email,
	}

	p.mu.Lock()
	p.current = session
	watchers := append([]func(*domain.Session){}, p.watchers...)
	p.mu.Unlock()

	p.resolvePending(state, nil)

	for _, w := range watchers {
		w(session)
	}

	p.logger.Infow("sign-in completed", "user_id", session.UID)
	return session, nil
}

// CancelSignIn resolves a pending flow as user-cancelled. No logout event
// follows a cancellation.
func (p *OIDCProvider) CancelSignIn(state string) {
	p.resolvePending(state, domain.ErrLoginCancelled)
}

func (p *OIDCProvider) resolvePending(state string, err error) {
	p.mu.Lock()
	done, ok := p.pending[state]
	delete(p.pending, state)
	p.mu.Unlock()

	if ok {
		done <- err
	}
}
