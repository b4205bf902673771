package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/royal-fernet/storefront/internal/chat"
	"github.com/royal-fernet/storefront/internal/checkout"
	"github.com/royal-fernet/storefront/internal/handler"
	"github.com/royal-fernet/storefront/internal/storage/postgres"
	"github.com/royal-fernet/storefront/pkg/health"
	"github.com/royal-fernet/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	cartStore := postgres.NewCartStore(pool)

	// Domain services.
	checkoutSvc := checkout.NewService(cfg.Checkout.WhatsAppNumber)
	if !checkoutSvc.Configured() {
		lg.Warn("No WhatsApp number configured, checkout is disabled")
	}

	var chatProvider chat.Provider
	if cfg.Chat.APIKey != "" {
		chatProvider = chat.NewOpenAIClient(chat.OpenAIConfig{
			CompletionsURL: cfg.Chat.URL,
			APIKey:         cfg.Chat.APIKey,
			Model:          cfg.Chat.Model,
		})
	} else {
		lg.Warn("No chat API key configured, assistant uses canned replies")
	}
	chatSvc := chat.NewService(chatProvider, chat.ContextSource{
		Settings: settingsRepo,
		Products: productRepo,
	}, lg.Named("chat"))

	// HTTP handlers.
	h := handler.NewHandler(
		handler.Config{ImageBaseURL: cfg.ImageBaseURL},
		productRepo,
		adminRepo,
		storeRepo,
		settingsRepo,
		notificationRepo,
		cartStore,
		checkoutSvc,
		chatSvc,
	)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type", "Authorization", handler.CartTokenHeader},
				// The browser client must read the minted cart token back
				// from responses, so it has to be CORS-exposed.
				ExposeHeaders:    []string{handler.CartTokenHeader, "X-Request-ID"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
