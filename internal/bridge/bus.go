package bridge

import (
	"context"
	"fmt"
	"sync"

	"vidboard/internal/core/domain"

	"go.uber.org/zap"
)

// Handler processes one UI command. Returned errors are diagnostic; the bus
// logs them and keeps serving other channels.
type Handler func(ctx context.Context, cmd Command) error

// EventSink is the UI-facing transport that carries inbound envelopes.
type EventSink interface {
	Deliver(env Envelope) error
}

var outboundChannels = map[Channel]struct{}{
	ChannelSignIn:      {},
	ChannelSignOut:     {},
	ChannelLoadBoards:  {},
	ChannelSaveBoards:  {},
	ChannelSaveProfile: {},
	ChannelCreateBoard: {},
	ChannelPlay:        {},
}

// ChannelBus is the named-channel registry every component uses to talk to
// the UI. Delivery on a single channel is FIFO relative to that channel's
// own emissions; nothing is guaranteed across channels.
type ChannelBus struct {
	mu       sync.RWMutex
	handlers map[Channel]Handler
	sendMu   map[Channel]*sync.Mutex
	sink     EventSink

	logger *zap.SugaredLogger
}

func NewChannelBus(logger *zap.SugaredLogger) *ChannelBus {
	sendMu := make(map[Channel]*sync.Mutex)
	for _, ch := range []Channel{
		ChannelLogin, ChannelLogout, ChannelLoginCancelled,
		ChannelBoardsLoaded, ChannelBoardCreated,
		ChannelVideoProgress, ChannelVideoEnded,
	} {
		sendMu[ch] = &sync.Mutex{}
	}

	return &ChannelBus{
		handlers: make(map[Channel]Handler),
		sendMu:   sendMu,
		logger:   logger,
	}
}

// AttachSink connects the UI transport. Events sent while no sink is
// attached are dropped with a log line.
func (b *ChannelBus) AttachSink(sink EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
}

// Subscribe registers the single handler for an outbound channel. Unknown
// channel names are logged and reported, never fatal.
func (b *ChannelBus) Subscribe(ch Channel, handler Handler) error {
	if _, known := outboundChannels[ch]; !known {
		b.logger.Errorw("subscribe on unknown channel", "channel", ch)
		return fmt.Errorf("%w: %s", domain.ErrUnknownChannel, ch)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[ch]; exists {
		return fmt.Errorf("%w: %s", domain.ErrChannelSubscribed, ch)
	}
	b.handlers[ch] = handler
	return nil
}

// Dispatch routes a decoded command to its channel handler. A missing
// handler or a handler error is logged; other channels keep operating.
func (b *ChannelBus) Dispatch(ctx context.Context, cmd Command) {
	ch := cmd.CommandChannel()

	b.mu.RLock()
	handler := b.handlers[ch]
	b.mu.RUnlock()

	if handler == nil {
		b.logger.Warnw("no handler subscribed for channel", "channel", ch)
		return
	}

	if err := handler(ctx, cmd); err != nil {
		b.logger.Errorw("command failed", "channel", ch, "error", err)
	}
}

// Send delivers an event to the UI's inbound channel of the same name.
func (b *ChannelBus) Send(ev Event) error {
	ch := ev.EventChannel()

	mu, known := b.sendMu[ch]
	if !known {
		b.logger.Errorw("send on unknown channel", "channel", ch)
		return fmt.Errorf("%w: %s", domain.ErrUnknownChannel, ch)
	}

	env, err := EncodeEvent(ev)
	if err != nil {
		b.logger.Errorw("failed to encode event", "channel", ch, "error", err)
		return err
	}

	b.mu.RLock()
	sink := b.sink
	b.mu.RUnlock()

	if sink == nil {
		b.logger.Debugw("dropping event, no sink attached", "channel", ch)
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if err := sink.Deliver(env); err != nil {
		b.logger.Errorw("failed to deliver event", "channel", ch, "error", err)
		return err
	}
	return nil
}
