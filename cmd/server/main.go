package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"mediabrief/internal/briefstore"
	"mediabrief/internal/catalog"
	"mediabrief/internal/config"
	"mediabrief/internal/content"
	"mediabrief/internal/extraction"
	"mediabrief/internal/handler"
	"mediabrief/internal/logger"
	"mediabrief/internal/parser"
	"mediabrief/internal/parser/providers"
	"mediabrief/internal/port"
	"mediabrief/internal/router"
	"mediabrief/internal/service"
	s3storage "mediabrief/internal/storage/s3"
	"mediabrief/internal/validator"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the model provider chain
	providers.RegisterAll()
	provider, err := parser.NewChain(cfg.Parser.Providers())
	if err != nil {
		return fmt.Errorf("failed to initialize model providers: %w", err)
	}
	log.Info().Str("provider", provider.Name()).Msg("model provider chain ready")

	// Initialize the pipeline
	contentExtractor := content.NewExtractor(content.NewImageMagickRenderer(cfg.Extraction.PDFDPI), cfg.Extraction.MaxPDFPages)
	engine := validator.NewEngine(validator.NewDefaultRegistry())
	runner := extraction.NewRunner(parser.NewClient(provider), engine, cfg.Extraction.RetryOnGenericNames)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info().Str("version", cat.Version()).Msg("catalog loaded")

	store, err := newBriefStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Initialize services
	importSvc := service.NewImportService(contentExtractor, runner, store, cat, &cfg.Extraction)
	reaper := service.NewSessionReaper(importSvc, service.SessionReaperConfig{
		Interval: cfg.Session.SweepInterval,
		TTL:      cfg.Session.TTL,
	})
	go reaper.Start(ctx)

	// Initialize handlers
	importH := handler.NewImportHandler(importSvc)
	catalogH := handler.NewCatalogHandler(cat)
	healthH := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"catalog": func() error {
			if cat.Version() == "" {
				return errors.New("catalog has no version")
			}
			return nil
		},
	})

	r := router.Setup(cfg.CORS.AllowedOrigins, importH, catalogH, healthH)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("env", cfg.Server.Environment).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newBriefStore(ctx context.Context, cfg *config.Config) (port.BriefStore, error) {
	switch cfg.Store.Provider {
	case "", "memory":
		log.Info().Msg("using in-memory brief store")
		return briefstore.NewMemoryStore(), nil
	case "s3":
		client, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("using S3 brief store")
		return briefstore.NewObjectStore(client, cfg.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown brief store provider %q", cfg.Store.Provider)
	}
}
