package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/riskibarqy/nation-points/external/orf"
	"github.com/riskibarqy/nation-points/internal/config"
	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/interfaces/httpapi"
	"github.com/riskibarqy/nation-points/internal/platform/id"
	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/platform/metrics"
	"github.com/riskibarqy/nation-points/internal/platform/resilience"
	"github.com/riskibarqy/nation-points/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// App is the assembled API process: feed client, scoring service and HTTP server.
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	metrics *metrics.Manager
	feed    *orf.Client
	points  *usecase.PointsService
	server  *http.Server
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var metricsManager *metrics.Manager
	if cfg.MetricsEnabled {
		metricsManager = metrics.NewManager(
			metrics.WithRuntimeCollectors(),
			metrics.WithBuckets(cfg.MetricsLatencyBuckets),
		)
	}

	feed := orf.NewClient(FeedClientConfig(cfg, logger.Named("feed"), metricsManager))
	var recorder usecase.ScoreRecorder
	if metricsManager != nil {
		recorder = metricsManager
	}
	points := usecase.NewPointsService(feed, scoring.WorldCup(), logger, recorder, usecase.PointsServiceConfig{
		BatchWorkers:   cfg.BatchWorkers,
		MaxBatchEvents: cfg.BatchMaxEvents,
	})

	handler := httpapi.NewHandler(points, feed, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		Logger:             logger,
		Metrics:            metricsManager,
		IDGenerator:        id.NewUUIDGenerator(),
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metricsManager,
		feed:    feed,
		points:  points,
		server:  server,
	}, nil
}

// FeedClientConfig maps FEED_* settings onto the ORF client.
func FeedClientConfig(cfg config.Config, logger *logging.Logger, metricsManager *metrics.Manager) orf.ClientConfig {
	return orf.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		UserAgent:  cfg.FeedUserAgent,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		RateLimit:  cfg.FeedRateLimit,
		RateBurst:  cfg.FeedRateBurst,
		Logger:     logger,
		Metrics:    metricsManager,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailures,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMax,
		},
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) PointsService() *usecase.PointsService {
	return a.points
}

// Run serves until ctx is canceled, then drains in-flight requests for at
// most ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.logger.Info("http server starting", "addr", listener.Addr().String())
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		timeout := a.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		a.logger.Info("http server stopped")
		return nil
	})

	return group.Wait()
}
