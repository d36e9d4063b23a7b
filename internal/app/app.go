package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/sleeper-league-viewer/external/sleeper"
	"github.com/riskibarqy/sleeper-league-viewer/internal/config"
	"github.com/riskibarqy/sleeper-league-viewer/internal/interfaces/httpapi"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/resilience"
	"github.com/riskibarqy/sleeper-league-viewer/internal/usecase"
	"github.com/riskibarqy/sleeper-league-viewer/internal/view"
)

const minSweepInterval = time.Second

// App is the assembled viewer process: the HTTP server plus the session
// store and fetch pool behind it.
type App struct {
	Server *http.Server

	sessions *view.Sessions
	pool     *ants.Pool
	clock    clock.Clock
	sweep    time.Duration
	logger   *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	clk := clock.New()

	sleeperClient := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL: cfg.SleeperBaseURL,
		Timeout: cfg.SleeperTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMaxReq,
		},
		Clock: clk,
	})
	leagueSvc := usecase.NewLeagueService(sleeperClient)

	pool, err := ants.NewPool(cfg.FetchWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create fetch worker pool: %w", err)
	}

	sessions := view.NewSessions(view.SessionsConfig{
		TTL:    cfg.SessionTTL,
		Clock:  clk,
		Logger: logger,
	}, func() *view.Root {
		return view.NewRoot(leagueSvc, leagueSvc, pool, logger)
	})

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Sessions:     sessions,
		Logger:       logger,
		SecureCookie: cfg.AppEnv == config.EnvProd,
	})
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		sessions: sessions,
		pool:     pool,
		clock:    clk,
		sweep:    sweepInterval(cfg.SessionTTL),
		logger:   logger,
	}, nil
}

// Run serves HTTP and sweeps expired sessions until ctx is done or the
// listener fails. It shuts everything down before returning.
func (a *App) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.sessions.Run(sweepCtx, a.clock, a.sweep)

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(runErr, a.Shutdown(shutdownCtx))
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	a.sessions.Close(ctx)
	if releaseErr := a.pool.ReleaseTimeout(releaseTimeout(ctx)); releaseErr != nil {
		a.logger.Warn("fetch pool release timed out", "error", releaseErr)
	}
	a.logger.Info("http server stopped")
	return err
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < minSweepInterval {
		return minSweepInterval
	}
	return interval
}

func releaseTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 5 * time.Second
	}
	if remaining := time.Until(deadline); remaining > 0 {
		return remaining
	}
	return time.Millisecond
}
