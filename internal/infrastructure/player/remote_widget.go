package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"vidboard/internal/core/domain"
	"vidboard/internal/core/ports"

	"go.uber.org/zap"
)

// RemoteWidgetFactory drives an embeddable playback widget over its control
// API. The widget itself renders inside the UI; the bridge only issues load
// commands and reads back state.
type RemoteWidgetFactory struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger
}

func NewRemoteWidgetFactory(baseURL string, logger *zap.SugaredLogger) ports.WidgetFactory {
	return &RemoteWidgetFactory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

func (f *RemoteWidgetFactory) New(videoID string, onReady func(), onStateChange func(domain.PlayerState)) (ports.PlayerWidget, error) {
	w := &remoteWidget{
		baseURL: f.baseURL,
		client:  f.client,
		logger:  f.logger,
		stop:    make(chan struct{}),
	}

	if err := w.load(videoID, true); err != nil {
		return nil, err
	}

	go w.watch(onReady, onStateChange)
	return w, nil
}

type remoteWidget struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger

	stopOnce sync.Once
	stop     chan struct{}
}

type loadRequest struct {
	VideoID  string `json:"videoId"`
	Autoplay bool   `json:"autoplay"`
}

type stateResponse struct {
	State domain.PlayerState `json:"state"`
}

func (w *remoteWidget) LoadVideo(videoID string) {
	if err := w.load(videoID, true); err != nil {
		w.logger.Errorw("failed to load video into widget", "video_id", videoID, "error", err)
	}
}

func (w *remoteWidget) load(videoID string, autoplay bool) error {
	body, err := json.Marshal(loadRequest{VideoID: videoID, Autoplay: autoplay})
	if err != nil {
		return err
	}

	resp, err := w.client.Post(w.baseURL+"/player/load", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("widget load request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("widget load returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *remoteWidget) State() domain.PlayerState {
	var state stateResponse
	if err := w.getJSON("/player/state", &state); err != nil {
		return domain.PlayerUninitialized
	}
	return state.State
}

func (w *remoteWidget) Progress() domain.PlaybackState {
	var progress domain.PlaybackState
	if err := w.getJSON("/player/progress", &progress); err != nil {
		return domain.PlaybackState{}
	}
	return progress
}

func (w *remoteWidget) Close() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

// watch polls the widget state and relays transitions: ready once the
// widget answers, ended on the first ended report per playback.
func (w *remoteWidget) watch(onReady func(), onStateChange func(domain.PlayerState)) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var (
		ready bool
		last  domain.PlayerState = domain.PlayerUninitialized
	)

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			state := w.State()
			if state == domain.PlayerUninitialized {
				continue
			}
			if !ready {
				ready = true
				onReady()
			}
			if state != last {
				last = state
				onStateChange(state)
			}
		}
	}
}

func (w *remoteWidget) getJSON(path string, out any) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, w.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("widget returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
