package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"vidboard/internal/bridge"
	httphandlers "vidboard/internal/handlers/http"
	"vidboard/internal/core/ports"
	"vidboard/internal/core/services"
	"vidboard/internal/infrastructure/identity"
	"vidboard/internal/infrastructure/middleware"
	"vidboard/internal/infrastructure/monitoring"
	"vidboard/internal/infrastructure/player"
	"vidboard/internal/infrastructure/repositories"
	"vidboard/internal/infrastructure/signal"
	"vidboard/pkg/config"
	"vidboard/pkg/logger"
	"vidboard/pkg/tracing"

	"github.com/gin-gonic/gin"
)

func main() {
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zapLogger.Sync()
	sugar := zapLogger.Sugar()

	tp, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "vidboard",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		sugar.Fatalw("failed to init tracing", "error", err)
	}
	defer tp.Shutdown(context.Background())

	// Document store
	factory, err := repositories.NewRepositoryFactory(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to create repository factory", "error", err)
	}
	defer factory.Close()

	profileRepo := factory.CreateProfileRepository()
	boardRepo := factory.CreateBoardRepository()

	// Core services
	bootstrap := services.NewBootstrapService(profileRepo, boardRepo, sugar)
	boardSync := services.NewBoardSyncService(boardRepo, profileRepo, cfg.Sync.BoardCacheTTL, sugar)

	// Identity provider, with a local fallback when no issuer is configured
	var (
		identityProvider ports.IdentityProvider
		oidcProvider     *identity.OIDCProvider
	)
	if cfg.Identity.IssuerURL != "" {
		oidcProvider, err = identity.NewOIDCProvider(context.Background(), cfg, sugar)
		if err != nil {
			sugar.Fatalw("failed to init identity provider", "error", err)
		}
		identityProvider = oidcProvider
	} else {
		sugar.Warnw("no OIDC issuer configured, using local identity provider")
		identityProvider = identity.NewLocalProvider(sugar)
	}
	tokens := identity.NewSessionTokenManager(cfg.Identity.SessionSecret, cfg.Identity.SessionTokenTTL)

	// Message bridge
	bus := bridge.NewChannelBus(sugar)

	authBridge := bridge.NewAuthBridge(identityProvider, bootstrap, boardSync, bus, sugar)
	if err := authBridge.Start(context.Background()); err != nil {
		sugar.Fatalw("failed to start auth bridge", "error", err)
	}

	boardBridge := bridge.NewBoardBridge(boardSync, bus, sugar)
	if err := boardBridge.Start(); err != nil {
		sugar.Fatalw("failed to start board bridge", "error", err)
	}

	widgetFactory := player.NewRemoteWidgetFactory(cfg.Player.WidgetControlURL, sugar)
	playerBridge := bridge.NewPlayerBridge(widgetFactory, bus, cfg.Player.ProgressPollInterval, sugar)
	if err := playerBridge.Start(); err != nil {
		sugar.Fatalw("failed to start player bridge", "error", err)
	}
	defer playerBridge.Close()

	// Monitoring
	metrics := monitoring.NewPrometheusCollector()
	health := monitoring.NewHealthChecker()
	if client := factory.RedisClient(); client != nil {
		health.AddCheck("store", func(ctx context.Context) (bool, error) {
			if err := client.Ping(ctx).Err(); err != nil {
				return false, err
			}
			return true, nil
		}, 3*time.Second)
	}

	// Signal transport
	wsServer := signal.NewWebSocketServer(bus, tokens, metrics, sugar)
	wsServer.SetPingInterval(cfg.Signal.PingInterval)
	wsServer.SetPongTimeout(cfg.Signal.PongTimeout)
	if cfg.RateLimiting.Enabled {
		wsServer.SetRateLimit(cfg.RateLimiting.MessagesPerSecond, cfg.RateLimiting.Burst)
	}

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/channels", wsServer.HandleWebSocket)
		sugar.Infow("starting signal server", "address", cfg.Signal.Address)
		if err := http.ListenAndServe(cfg.Signal.Address, mux); err != nil {
			sugar.Fatalw("signal server failed", "error", err)
		}
	}()

	// HTTP surface
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.TracingMiddleware())

	sessionHandler := httphandlers.NewSessionHandler(oidcProvider, tokens, health)
	sessionHandler.SetupRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sugar.Infow("starting bridge server", "address", cfg.Server.Address)
	if err := server.ListenAndServe(); err != nil {
		sugar.Fatalw("bridge server failed", "error", err)
	}
}
