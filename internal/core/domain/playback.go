package domain

// PlayerState mirrors the playback widget's reported state.
type PlayerState string

const (
	PlayerUninitialized PlayerState = "uninitialized"
	PlayerReady         PlayerState = "ready"
	PlayerPlaying       PlayerState = "playing"
	PlayerPaused        PlayerState = "paused"
	PlayerBuffering     PlayerState = "buffering"
	PlayerEnded         PlayerState = "ended"
)

// PlaybackState is the ephemeral progress snapshot emitted while a video is
// actively playing. Never persisted.
type PlaybackState struct {
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}
