package http

import (
	"net/http"

	"vidboard/internal/infrastructure/identity"
	"vidboard/internal/infrastructure/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionHandler serves the HTTP half of the interactive sign-in flow plus
// the operational endpoints. provider is nil when the service runs on the
// local identity fallback; the auth routes then answer 404.
type SessionHandler struct {
	identity *identity.OIDCProvider
	tokens   *identity.SessionTokenManager
	health   *monitoring.HealthChecker
}

func NewSessionHandler(
	provider *identity.OIDCProvider,
	tokens *identity.SessionTokenManager,
	health *monitoring.HealthChecker,
) *SessionHandler {
	return &SessionHandler{
		identity: provider,
		tokens:   tokens,
		health:   health,
	}
}

func (h *SessionHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/auth/login", h.Login)
	router.GET("/auth/callback", h.Callback)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Login redirects the browser to the identity provider. The state must name
// a sign-in flow opened through the signIn channel.
func (h *SessionHandler) Login(c *gin.Context) {
	if h.identity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "interactive sign-in not configured"})
		return
	}

	state := c.Query("state")
	if state == "" {
		// The signIn channel opened the flow; the browser does not carry
		// the state on the first hop.
		pending, ok := h.identity.PendingState()
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no pending sign-in"})
			return
		}
		state = pending
	} else if !h.identity.HasPending(state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pending sign-in for state"})
		return
	}
	c.Redirect(http.StatusFound, h.identity.AuthCodeURL(state))
}

// Callback completes or cancels the pending flow. A provider error response
// (user dismissed the consent screen) counts as cancellation.
func (h *SessionHandler) Callback(c *gin.Context) {
	if h.identity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "interactive sign-in not configured"})
		return
	}

	state := c.Query("state")
	if state == "" || !h.identity.HasPending(state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sign-in state"})
		return
	}

	if errCode := c.Query("error"); errCode != "" {
		h.identity.CancelSignIn(state)
		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
		return
	}

	session, err := h.identity.CompleteSignIn(c.Request.Context(), state, c.Query("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	token, err := h.tokens.Issue(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *SessionHandler) Health(c *gin.Context) {
	status := h.health.CheckAll(c.Request.Context())

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
