package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hcm/fhirsync/internal/config"
	"github.com/hcm/fhirsync/internal/domain/boundary"
	"github.com/hcm/fhirsync/internal/domain/facility"
	"github.com/hcm/fhirsync/internal/domain/product"
	"github.com/hcm/fhirsync/internal/domain/stock"
	"github.com/hcm/fhirsync/internal/pipeline"
	"github.com/hcm/fhirsync/internal/platform/cache"
	"github.com/hcm/fhirsync/internal/platform/db"
	"github.com/hcm/fhirsync/internal/platform/digit"
	"github.com/hcm/fhirsync/internal/platform/events"
	"github.com/hcm/fhirsync/internal/platform/metric"
	"github.com/hcm/fhirsync/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fhirsync-server",
		Short: "FHIR bundle to registry sync service",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the sync server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Failure channel. The pipeline degrades to local logging when the
	// broker is unreachable.
	var reporter events.Reporter = events.NopReporter{}
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL,
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			logger.Warn().Err(err).Str("url", cfg.NATSURL).Msg("nats unavailable, failure events disabled")
		} else {
			defer conn.Close()
			reporter = events.NewNATSReporter(conn, cfg.DLQSubject, cfg.FailedSubject, logger)
			logger.Info().Str("url", cfg.NATSURL).Msg("connected to nats")
		}
	}

	// Replica database, optional. Without it the read-side registry routes
	// are not mounted; ingestion does not need it.
	var registry *db.Registry
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		store := cache.NewMemory()
		store.StartCleanup(ctx, cfg.CacheTTL)
		registry = db.NewRegistry(pool, store, cfg.CacheTTL, logger)
	} else {
		logger.Warn().Msg("no database configured, registry routes disabled")
	}

	// Domain service clients
	client := digit.NewClient(cfg.TenantID, cfg.HTTPTimeout, logger)
	stockSyncer := stock.NewSyncer(client, cfg.Stock(), logger)
	reconSyncer := stock.NewReconciliationSyncer(client, cfg.StockReconciliation(), logger)
	facilitySyncer := facility.NewSyncer(client, cfg.Facility(), logger)
	productSyncer := product.NewSyncer(client, cfg.ProductVariant(), logger)
	boundarySyncer := boundary.NewSyncer(client, cfg.Boundary(), cfg.HierarchyType, logger)

	metrics := metric.New()
	pipe := pipeline.New(pipeline.Targets{
		Stocks:          stockSyncer,
		Reconciliations: reconSyncer,
		Facilities:      facilitySyncer,
		ProductVariants: productSyncer,
		Boundaries:      boundarySyncer,
	}, cfg.TenantID, cfg.HierarchyType, reporter, metrics, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/fhir-api")
	pipeline.NewHandler(pipe, logger).RegisterRoutes(api)
	stock.NewHandler(stockSyncer, reconSyncer, logger).RegisterRoutes(api)
	facility.NewHandler(facilitySyncer, registry, logger).RegisterRoutes(api)
	product.NewHandler(productSyncer, logger).RegisterRoutes(api)
	boundary.NewHandler(boundarySyncer, registry, logger).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("tenant", cfg.TenantID).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
