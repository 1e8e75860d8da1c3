package eternaservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api"
	"github.com/HamidMoopen/memo-ai-sub000/internal/auth"
	"github.com/HamidMoopen/memo-ai-sub000/internal/callevents"
	"github.com/HamidMoopen/memo-ai-sub000/internal/config"
	"github.com/HamidMoopen/memo-ai-sub000/internal/factory"
	"github.com/HamidMoopen/memo-ai-sub000/internal/health"
	"github.com/HamidMoopen/memo-ai-sub000/internal/logger"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
	"github.com/HamidMoopen/memo-ai-sub000/internal/voice"
)

// dependencies are the long-lived clients built once at startup.
type dependencies struct {
	store    store.Store
	close    func() error
	narrator *narrator.Client
	voice    *voice.BreakerClient
	auth     auth.Authenticator
}

// Run starts the story service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("eterna-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("openai_model", cfg.OpenAIModel).
		Msg("Eterna service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = deps.close() }()

	svcHealth := startHealthCheckers(ctx, cfg, log, deps)

	router := buildRouter(cfg, log, deps, svcHealth)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	st, db, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}

	narr, err := factory.NewNarrator(cfg, log)
	if err != nil {
		_ = db.Close()
		log.Error().Stack().Err(err).Msg("Narrator unavailable")
		return nil, err
	}

	authn, err := auth.NewAuthenticator(cfg)
	if err != nil {
		_ = db.Close()
		log.Error().Stack().Err(err).Msg("Authenticator unavailable")
		return nil, err
	}
	if cfg.VapiAPIKey == "" {
		log.Warn().Msg("voice platform API key not set; call initiation will fail upstream")
	}

	return &dependencies{
		store:    st,
		close:    db.Close,
		narrator: narr,
		voice:    factory.NewVoiceClient(cfg, log),
		auth:     authn,
	}, nil
}

// buildRouter wires services into the HTTP router.
func buildRouter(cfg *config.Config, log zerolog.Logger, deps *dependencies, svcHealth *health.ServiceHealthChecker) http.Handler {
	return api.NewRouter(api.Deps{
		Log:               log,
		Auth:              deps.auth,
		WebhookSecret:     cfg.VapiWebhookSecret,
		GenerateRateLimit: cfg.GenerateRateLimit,
		Users:             services.NewUserService(deps.store),
		Profiles:          services.NewProfileService(deps.store),
		Stories:           services.NewStoryService(deps.store, deps.narrator, log),
		Calls: services.NewCallService(deps.store, deps.voice, services.CallDefaults{
			AssistantID:   cfg.VapiAssistantID,
			PhoneNumberID: cfg.VapiPhoneNumberID,
			WebhookURL:    cfg.WebhookURL(),
		}, log),
		Recordings: services.NewRecordingService(deps.store),
		Books:      services.NewBookService(deps.store),
		Dispatcher: callevents.NewDispatcher(services.NewCallEventWriter(deps.store), log.With().Str("component", "callevents").Logger()),
		Health:     svcHealth,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
// Only the store gates service health; the voice platform is reported but an
// outage there must not take story browsing down.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.ServiceHealthChecker {
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	storeChecker := store.NewStoreHealthChecker(deps.store, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	voiceChecker := voice.NewHealthChecker(deps.voice, log, probeTimeout)
	go voiceChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	svcHealth.Report(voiceChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// story generation and PDF export can outlast the usual write window
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
