package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"vidboard/internal/bridge"
	"vidboard/internal/core/domain"
	"vidboard/internal/infrastructure/identity"
	"vidboard/internal/infrastructure/monitoring"
	"vidboard/pkg/tracing"
	"vidboard/pkg/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketServer carries channel envelopes between the UI and the bridge.
// One UI client is attached at a time; a reconnect replaces the previous
// connection.
type WebSocketServer struct {
	bus     *bridge.ChannelBus
	tokens  *identity.SessionTokenManager
	metrics *monitoring.PrometheusCollector

	pingInterval time.Duration
	pongTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	rateLimit rate.Limit
	rateBurst int

	mu      sync.Mutex
	current *websocket.Conn

	logger *zap.SugaredLogger
}

func NewWebSocketServer(
	bus *bridge.ChannelBus,
	tokens *identity.SessionTokenManager,
	metrics *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *WebSocketServer {
	return &WebSocketServer{
		bus:          bus,
		tokens:       tokens,
		metrics:      metrics,
		pingInterval: 30 * time.Second,
		pongTimeout:  60 * time.Second,
		readTimeout:  60 * time.Second,
		writeTimeout: 10 * time.Second,
		logger:       logger,
	}
}

// SetPingInterval sets ping interval for WebSocket connections
func (s *WebSocketServer) SetPingInterval(interval time.Duration) {
	s.pingInterval = interval
}

// SetPongTimeout sets pong timeout for WebSocket connections
func (s *WebSocketServer) SetPongTimeout(timeout time.Duration) {
	s.pongTimeout = timeout
	s.readTimeout = timeout
}

// SetRateLimit enables per-connection inbound command rate limiting.
func (s *WebSocketServer) SetRateLimit(messagesPerSecond float64, burst int) {
	s.rateLimit = rate.Limit(messagesPerSecond)
	s.rateBurst = burst
}

func (s *WebSocketServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// A session token is only required once one has been issued; the first
	// attach happens signed-out and signs in over the channel.
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := s.tokens.Validate(token)
		if err != nil {
			s.logger.Warnw("rejected client with invalid session token", "error", err)
			http.Error(w, "invalid session token", http.StatusUnauthorized)
			return
		}
		s.logger.Infow("client presented session token", "user_id", claims.UserID)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	if s.current != nil {
		s.logger.Infow("closing previous UI connection for reconnecting client")
		s.current.Close()
	}
	s.current = conn
	s.mu.Unlock()

	s.metrics.RecordClientConnected()
	defer s.metrics.RecordClientDisconnected()

	sink := &connSink{
		conn:         conn,
		writeTimeout: s.writeTimeout,
		metrics:      s.metrics,
	}
	s.bus.AttachSink(sink)

	clientID := utils.GenerateClientID()
	s.logger.Infow("UI client attached", "client_id", clientID, "remote_addr", conn.RemoteAddr())

	conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		return nil
	})

	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	var limiter *rate.Limiter
	if s.rateLimit > 0 {
		limiter = rate.NewLimiter(s.rateLimit, s.rateBurst)
	}

	envelopeChan := make(chan bridge.Envelope, 10)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var env bridge.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				errorChan <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(s.readTimeout))
			envelopeChan <- env
		}
	}()

	for {
		select {
		case env := <-envelopeChan:
			if limiter != nil && !limiter.Allow() {
				s.logger.Warnw("dropping command, rate limit exceeded", "channel", env.Channel)
				continue
			}
			s.handleEnvelope(r.Context(), env)

		case <-pingTicker.C:
			if err := sink.ping(); err != nil {
				s.logger.Infow("error sending ping", "error", err)
				return
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Infow("error reading envelope", "error", err)
			}
			s.logger.Infow("UI client detached", "client_id", clientID)
			return
		}
	}
}

func (s *WebSocketServer) handleEnvelope(ctx context.Context, env bridge.Envelope) {
	cmd, err := bridge.DecodeCommand(env)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownChannel) {
			s.metrics.RecordUnknownChannel()
		}
		// Programmer error on the UI side: logged and skipped, the bridge
		// keeps serving other channels.
		s.logger.Errorw("dropping envelope", "channel", env.Channel, "error", err)
		return
	}

	ctx, span := tracing.Tracer("vidboard/signal").Start(ctx, "command."+string(env.Channel))
	defer span.End()

	start := time.Now()
	s.bus.Dispatch(ctx, cmd)
	s.metrics.RecordCommand(string(env.Channel), time.Since(start))
}

// connSink delivers inbound envelopes to the attached UI connection.
// gorilla/websocket requires serialized writers; the bus holds a per-channel
// lock and this sink adds a connection-wide one.
type connSink struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	metrics      *monitoring.PrometheusCollector
	mu           sync.Mutex
}

func (c *connSink) Deliver(env bridge.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.conn.WriteJSON(env); err != nil {
		return err
	}
	c.metrics.RecordEvent(string(env.Channel))
	return nil
}

// ping shares the write lock with Deliver; gorilla allows one writer only.
func (c *connSink) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}
