package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leetracker/internal/bootstrap"
	"leetracker/internal/config"
	"leetracker/internal/handlers"
	"leetracker/internal/jobs"
	"leetracker/internal/metrics"
	"leetracker/internal/routers"
	"leetracker/internal/stats"
	"leetracker/internal/store"
	"leetracker/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

var (
	loadConfig      = config.LoadConfig
	newLogger       = utils.NewLogger
	openBackend     = bootstrap.OpenBackend
	httpListenServe = func(server *http.Server) error { return server.ListenAndServe() }
	shutdownSignals = defaultShutdownSignals
	exitFunc        = os.Exit
	logFatalFn      = defaultLogFatal
)

func resetServerGlobals() {
	loadConfig = config.LoadConfig
	newLogger = utils.NewLogger
	openBackend = bootstrap.OpenBackend
	httpListenServe = func(server *http.Server) error { return server.ListenAndServe() }
	shutdownSignals = defaultShutdownSignals
	exitFunc = os.Exit
	logFatalFn = defaultLogFatal
}

func defaultShutdownSignals() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch
}

func defaultLogFatal(err error) {
	log.Printf("leetracker: %v", err)
	exitFunc(1)
}

func main() {
	if err := run(); err != nil {
		logFatalFn(err)
	}
}

func newRouter(cfg *config.Config, tracker *store.Store, backend store.Backend, logger *zap.Logger) *chi.Mux {
	agg := stats.NewAggregator(tracker)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	routers.HealthRoutes(router, handlers.NewHealthHandler(backend))
	routers.TrackerRoutes(router, routers.Handlers{
		Questions: handlers.NewQuestionHandler(tracker, logger),
		Companies: handlers.NewCompanyHandler(tracker, agg, logger),
		Progress:  handlers.NewProgressHandler(tracker, agg),
		Admin:     handlers.NewAdminHandler(tracker, cfg.Admin, logger),
	}, cfg.Admin.JWTSecret)
	return router
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("snapshots", cfg.Snapshot.Enabled))
	if cfg.Admin.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is the development default, set it before exposing the service")
	}

	ctx := context.Background()
	backend, closeBackend, err := openBackend(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeBackend(context.Background()); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	tracker, err := store.Open(ctx, backend, store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("load tracker state: %w", err)
	}
	metrics.SetStreak(tracker.CurrentStreak())

	exporterJob := jobs.NewSnapshotExporterJob(tracker, &jobs.ExporterConfig{
		Schedule:      cfg.Snapshot.Schedule,
		ExportDir:     cfg.Snapshot.Dir,
		ExportEnabled: cfg.Snapshot.Enabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		return err
	}
	defer exporterJob.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, tracker, backend, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return serve(server, logger)
}

// serve blocks until the listener fails or a shutdown signal arrives.
func serve(server *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("leetracker starting", zap.String("addr", server.Addr))
		errCh <- httpListenServe(server)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-shutdownSignals():
	}

	logger.Info("leetracker shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("leetracker exited")
	return nil
}
