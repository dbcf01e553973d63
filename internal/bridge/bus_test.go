package bridge_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"vidboard/internal/bridge"
	"vidboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureSink records delivered envelopes for assertions.
type captureSink struct {
	mu   sync.Mutex
	envs []bridge.Envelope
}

func (s *captureSink) Deliver(env bridge.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = append(s.envs, env)
	return nil
}

func (s *captureSink) byChannel(ch bridge.Channel) []bridge.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []bridge.Envelope
	for _, env := range s.envs {
		if env.Channel == ch {
			out = append(out, env)
		}
	}
	return out
}

func (s *captureSink) count(ch bridge.Channel) int {
	return len(s.byChannel(ch))
}

func TestSubscribeUnknownChannel(t *testing.T) {
	bus := bridge.NewChannelBus(zap.NewNop().Sugar())

	err := bus.Subscribe(bridge.Channel("scrollItemToBeginning"), func(ctx context.Context, cmd bridge.Command) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)
}

func TestSubscribeRejectsSecondHandler(t *testing.T) {
	bus := bridge.NewChannelBus(zap.NewNop().Sugar())

	noop := func(ctx context.Context, cmd bridge.Command) error { return nil }
	require.NoError(t, bus.Subscribe(bridge.ChannelPlay, noop))
	assert.ErrorIs(t, bus.Subscribe(bridge.ChannelPlay, noop), domain.ErrChannelSubscribed)
}

func TestDispatchRoutesToHandler(t *testing.T) {
	bus := bridge.NewChannelBus(zap.NewNop().Sugar())

	var got bridge.Command
	require.NoError(t, bus.Subscribe(bridge.ChannelPlay, func(ctx context.Context, cmd bridge.Command) error {
		got = cmd
		return nil
	}))

	bus.Dispatch(context.Background(), bridge.PlayCommand{VideoID: "abc123"})

	require.NotNil(t, got)
	assert.Equal(t, bridge.PlayCommand{VideoID: "abc123"}, got)
}

func TestDispatchWithoutHandlerIsNonFatal(t *testing.T) {
	bus := bridge.NewChannelBus(zap.NewNop().Sugar())

	// Must not panic; the bus keeps operating on other channels.
	bus.Dispatch(context.Background(), bridge.CreateBoardCommand{})
}

func TestSendDeliversEnvelope(t *testing.T) {
	bus := bridge.NewChannelBus(zap.NewNop().Sugar())
	sink := &captureSink{}
	bus.AttachSink(sink)

	require.NoError(t, bus.Send(bridge.LoginEvent{Session: &domain.Session{
		UID:         "u1",
		DisplayName: "Test User",
		Email:       "test@example.com",
	}}))

	envs := sink.byChannel(bridge.ChannelLogin)
	require.Len(t, envs, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(envs[0].Payload, &payload))
	assert.Equal(t, "u1", payload["uid"])
	assert.Equal(t, "Test User", payload["displayName"])
}

func TestSendWithoutSinkDropsQuietly(t *testing.T) {
	bus := bridge.NewChannelBus(zap.NewNop().Sugar())
	assert.NoError(t, bus.Send(bridge.VideoEndedEvent{}))
}

func TestLogoutEventCarriesSentinel(t *testing.T) {
	env, err := bridge.EncodeEvent(bridge.LogoutEvent{})
	require.NoError(t, err)
	assert.Equal(t, bridge.ChannelLogout, env.Channel)
	assert.JSONEq(t, `"ignored value"`, string(env.Payload))
}

func TestDecodeCommandVariants(t *testing.T) {
	cmd, err := bridge.DecodeCommand(bridge.Envelope{
		Channel: bridge.ChannelLoadBoards,
		Payload: json.RawMessage(`["b1","b2"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, bridge.LoadBoardsCommand{IDs: []domain.BoardID{"b1", "b2"}}, cmd)

	cmd, err = bridge.DecodeCommand(bridge.Envelope{
		Channel: bridge.ChannelPlay,
		Payload: json.RawMessage(`"def456"`),
	})
	require.NoError(t, err)
	assert.Equal(t, bridge.PlayCommand{VideoID: "def456"}, cmd)

	cmd, err = bridge.DecodeCommand(bridge.Envelope{Channel: bridge.ChannelSignIn})
	require.NoError(t, err)
	assert.Equal(t, bridge.SignInCommand{}, cmd)

	_, err = bridge.DecodeCommand(bridge.Envelope{Channel: bridge.Channel("bogus")})
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)
}

func TestDecodeCommandRejectsMalformedPayload(t *testing.T) {
	_, err := bridge.DecodeCommand(bridge.Envelope{
		Channel: bridge.ChannelSaveBoards,
		Payload: json.RawMessage(`{"not":"a list"}`),
	})
	assert.Error(t, err)
}
