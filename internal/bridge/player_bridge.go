package bridge

import (
	"context"
	"sync"
	"time"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"

	"go.uber.org/zap"
)

// PlayerBridge drives the external playback widget: loads videos, polls
// progress while playing and relays end-of-video.
type PlayerBridge struct {
	factory      ports.WidgetFactory
	bus          *ChannelBus
	pollInterval time.Duration
	logger       *zap.SugaredLogger

	mu         sync.Mutex
	widget     ports.PlayerWidget
	cancelPoll context.CancelFunc
}

// NewPlayerBridge builds the bridge. pollInterval is the progress-poll
// period; 800ms approximates a smooth progress bar without flooding the UI.
func NewPlayerBridge(
	factory ports.WidgetFactory,
	bus *ChannelBus,
	pollInterval time.Duration,
	logger *zap.SugaredLogger,
) *PlayerBridge {
	return &PlayerBridge{
		factory:      factory,
		bus:          bus,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Start subscribes the play channel.
func (p *PlayerBridge) Start() error {
	return p.bus.Subscribe(ChannelPlay, func(ctx context.Context, cmd Command) error {
		play, ok := cmd.(PlayCommand)
		if !ok {
			return nil
		}
		return p.Play(play.VideoID)
	})
}

// Play loads the video. The widget is constructed once on the first call;
// later calls load the new video into the same instance so progress polling
// never leaks across videos.
func (p *PlayerBridge) Play(videoID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.widget != nil {
		p.widget.LoadVideo(videoID)
		p.restartPollLocked()
		p.logger.Debugw("loaded video into existing widget", "video_id", videoID)
		return nil
	}

	widget, err := p.factory.New(videoID, p.onReady, p.onStateChange)
	if err != nil {
		p.logger.Errorw("failed to construct playback widget", "video_id", videoID, "error", err)
		return domain.ErrWidgetUnavailable
	}
	p.widget = widget
	p.logger.Infow("constructed playback widget", "video_id", videoID)
	return nil
}

// Close tears down the poll and the widget.
func (p *PlayerBridge) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelPoll != nil {
		p.cancelPoll()
		p.cancelPoll = nil
	}
	if p.widget != nil {
		p.widget.Close()
		p.widget = nil
	}
}

func (p *PlayerBridge) onReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restartPollLocked()
}

func (p *PlayerBridge) onStateChange(state domain.PlayerState) {
	if state == domain.PlayerEnded {
		p.bus.Send(VideoEndedEvent{})
	}
}

// restartPollLocked replaces the current progress poll with a fresh one
// owned by the current playback session. Caller holds p.mu.
func (p *PlayerBridge) restartPollLocked() {
	if p.cancelPoll != nil {
		p.cancelPoll()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancelPoll = cancel
	widget := p.widget

	go p.poll(ctx, widget)
}

// poll emits videoProgress on every tick where the widget reports itself
// playing. Paused and buffering ticks emit nothing.
func (p *PlayerBridge) poll(ctx context.Context, widget ports.PlayerWidget) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if widget.State() != domain.PlayerPlaying {
				continue
			}
			p.bus.Send(VideoProgressEvent{Progress: widget.Progress()})
		}
	}
}
