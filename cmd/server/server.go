package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/auth"
	"tubely/upload-api/internal/infrastructure/logger"
	"tubely/upload-api/internal/infrastructure/observability"
	"tubely/upload-api/internal/infrastructure/storage"
	"tubely/upload-api/internal/interfaces/httpserver"
)

// @title Tubely Upload API
// @version 1.0
// @description Uploads video and thumbnail assets for video records.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	cfg        *config.Config
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cfg *config.Config, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}
}

// Start runs the API server and, when PPROF_ADDR is set, the debug listener.
// The first failure stops both.
func (a *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	if a.cfg.PprofAddr != "" {
		eg.Go(func() error {
			return a.runPprof(ctx)
		})
	}
	return eg.Wait()
}

func (a *Application) runPprof(ctx context.Context) error {
	server := &http.Server{Addr: a.cfg.PprofAddr, Handler: http.DefaultServeMux}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	a.log.Info().Str("addr", a.cfg.PprofAddr).Msg("pprof listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("pprof server: %w", err)
	}
	return nil
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize application")
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// newApplication mirrors BuildApplication in wire.go.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	db, err := provideDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: %w", err)
	}
	localStorage, err := storage.NewLocalStorage(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}

	validator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	service := video.NewService(
		cfg,
		provideVideoRepository(db),
		provideStores(cfg, s3Storage, localStorage),
		provideProber(cfg, log),
		provideThumbnailRegistry(log),
		provideAssetLedger(db),
		log,
	)

	httpServer := httpserver.New(cfg, log, service, validator, provideHealthChecks(s3Storage, localStorage))
	return NewApplication(httpServer, cfg, log), nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
