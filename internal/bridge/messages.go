package bridge

import (
	"encoding/json"
	"fmt"

	"vidboard/internal/core/domain"
)

// Channel is the name of one unidirectional message path between the UI and
// the bridge.
type Channel string

// Outbound channels (UI -> bridge).
const (
	ChannelSignIn      Channel = "signIn"
	ChannelSignOut     Channel = "signOut"
	ChannelLoadBoards  Channel = "loadBoards"
	ChannelSaveBoards  Channel = "saveBoards"
	ChannelSaveProfile Channel = "saveProfile"
	ChannelCreateBoard Channel = "createBoard"
	ChannelPlay        Channel = "play"
)

// Inbound channels (bridge -> UI).
const (
	ChannelLogin          Channel = "login"
	ChannelLogout         Channel = "logout"
	ChannelLoginCancelled Channel = "loginCancelled"
	ChannelBoardsLoaded   Channel = "boardsLoaded"
	ChannelBoardCreated   Channel = "boardCreated"
	ChannelVideoProgress  Channel = "videoProgress"
	ChannelVideoEnded     Channel = "videoEnded"
)

// logoutSentinel is the payload carried by every logout event. The UI
// ignores the value; only the channel matters.
const logoutSentinel = "ignored value"

// Command is the closed set of UI-issued messages. Exactly one variant per
// outbound channel.
type Command interface {
	CommandChannel() Channel
}

type SignInCommand struct{}

type SignOutCommand struct{}

type LoadBoardsCommand struct {
	IDs []domain.BoardID
}

type SaveBoardsCommand struct {
	Boards []*domain.Board
}

type SaveProfileCommand struct {
	Profile *domain.UserProfile
}

type CreateBoardCommand struct{}

type PlayCommand struct {
	VideoID string
}

func (SignInCommand) CommandChannel() Channel      { return ChannelSignIn }
func (SignOutCommand) CommandChannel() Channel     { return ChannelSignOut }
func (LoadBoardsCommand) CommandChannel() Channel  { return ChannelLoadBoards }
func (SaveBoardsCommand) CommandChannel() Channel  { return ChannelSaveBoards }
func (SaveProfileCommand) CommandChannel() Channel { return ChannelSaveProfile }
func (CreateBoardCommand) CommandChannel() Channel { return ChannelCreateBoard }
func (PlayCommand) CommandChannel() Channel        { return ChannelPlay }

// Event is the closed set of bridge-emitted messages. Exactly one variant
// per inbound channel.
type Event interface {
	EventChannel() Channel
}

type LoginEvent struct {
	Session *domain.Session
}

type LogoutEvent struct{}

type LoginCancelledEvent struct{}

type BoardsLoadedEvent struct {
	Boards []*domain.Board
}

type BoardCreatedEvent struct {
	Board *domain.Board
}

type VideoProgressEvent struct {
	Progress domain.PlaybackState
}

type VideoEndedEvent struct{}

func (LoginEvent) EventChannel() Channel          { return ChannelLogin }
func (LogoutEvent) EventChannel() Channel         { return ChannelLogout }
func (LoginCancelledEvent) EventChannel() Channel { return ChannelLoginCancelled }
func (BoardsLoadedEvent) EventChannel() Channel   { return ChannelBoardsLoaded }
func (BoardCreatedEvent) EventChannel() Channel   { return ChannelBoardCreated }
func (VideoProgressEvent) EventChannel() Channel  { return ChannelVideoProgress }
func (VideoEndedEvent) EventChannel() Channel     { return ChannelVideoEnded }

// Envelope is the wire form of a channel message.
type Envelope struct {
	Channel Channel         `json:"channel"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type sessionPayload struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Email       string `json:"email"`
}

// DecodeCommand parses an envelope received from the UI into its command
// variant. Envelopes naming a channel outside the outbound set fail with
// domain.ErrUnknownChannel.
func DecodeCommand(env Envelope) (Command, error) {
	switch env.Channel {
	case ChannelSignIn:
		return SignInCommand{}, nil
	case ChannelSignOut:
		return SignOutCommand{}, nil
	case ChannelLoadBoards:
		var ids []domain.BoardID
		if err := json.Unmarshal(env.Payload, &ids); err != nil {
			return nil, fmt.Errorf("invalid loadBoards payload: %w", err)
		}
		return LoadBoardsCommand{IDs: ids}, nil
	case ChannelSaveBoards:
		var boards []*domain.Board
		if err := json.Unmarshal(env.Payload, &boards); err != nil {
			return nil, fmt.Errorf("invalid saveBoards payload: %w", err)
		}
		return SaveBoardsCommand{Boards: boards}, nil
	case ChannelSaveProfile:
		var profile domain.UserProfile
		if err := json.Unmarshal(env.Payload, &profile); err != nil {
			return nil, fmt.Errorf("invalid saveProfile payload: %w", err)
		}
		return SaveProfileCommand{Profile: &profile}, nil
	case ChannelCreateBoard:
		return CreateBoardCommand{}, nil
	case ChannelPlay:
		var videoID string
		if err := json.Unmarshal(env.Payload, &videoID); err != nil {
			return nil, fmt.Errorf("invalid play payload: %w", err)
		}
		return PlayCommand{VideoID: videoID}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownChannel, env.Channel)
	}
}

// EncodeEvent serializes an event into its wire envelope.
func EncodeEvent(ev Event) (Envelope, error) {
	var (
		payload any
		encode  = true
	)

	switch e := ev.(type) {
	case LoginEvent:
		payload = sessionPayload{
			UID:         string(e.Session.UID),
			DisplayName: e.Session.DisplayName,
			PhotoURL:    e.Session.PhotoURL,
			Email:       e.Session.Email,
		}
	case LogoutEvent:
		payload = logoutSentinel
	case BoardsLoadedEvent:
		payload = e.Boards
	case BoardCreatedEvent:
		payload = e.Board
	case VideoProgressEvent:
		payload = e.Progress
	case LoginCancelledEvent, VideoEndedEvent:
		encode = false
	default:
		return Envelope{}, fmt.Errorf("%w: %s", domain.ErrUnknownChannel, ev.EventChannel())
	}

	env := Envelope{Channel: ev.EventChannel()}
	if encode {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", ev.EventChannel(), err)
		}
		env.Payload = data
	}
	return env, nil
}
