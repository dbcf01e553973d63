package ports

import (
	"context"

	"vidboard/internal/core/domain"
)

// IdentityProvider abstracts the external auth collaborator. Sessions are
// delivered through Watch; SignIn only triggers the interactive flow.
type IdentityProvider interface {
	// Watch registers a persistent auth-state listener. The handler
	// receives the session on sign-in and nil on sign-out. There is no
	// unsubscribe path; the watcher lives for the process lifetime.
	Watch(ctx context.Context, handler func(session *domain.Session))
	// SignIn starts the interactive sign-in flow. A successful sign-in is
	// reported through Watch; user cancellation is returned as
	// domain.ErrLoginCancelled.
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// PlayerWidget is one instance of the embeddable playback widget.
type PlayerWidget interface {
	// LoadVideo replaces the currently loaded video in place.
	LoadVideo(videoID string)
	State() domain.PlayerState
	Progress() domain.PlaybackState
	Close()
}

// WidgetFactory constructs playback widget instances. onReady fires once the
// widget can accept commands; onStateChange fires on every widget state
// transition, including ended.
type WidgetFactory interface {
	New(videoID string, onReady func(), onStateChange func(domain.PlayerState)) (PlayerWidget, error)
}
