// Package server initializes and runs the chat backend: database and
// migrations, blob storage, the transcription client, the in-process event
// broker, the application services and the HTTP endpoint, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/config"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/httpapi"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/repomanager"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/services"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/storage"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/transcribe"
)

// shutdownTimeout bounds how long Run waits for in-flight requests on exit.
const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	db     *sql.DB
	broker *pubsub.Broker
	ingest *services.IngestService
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	st, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	var transcriber transcribe.Transcriber
	if cfg.DeepgramAPIKey != "" {
		transcriber = transcribe.NewDeepgramClient(cfg.DeepgramAPIKey, cfg.DeepgramBaseEndpoint)
	} else {
		logger.Warn(ctx, "no transcription api key, audio messages will have no transcripts")
	}

	broker := pubsub.NewBroker(logger)

	users := services.NewUserService(db, rm, cfg)
	groups := services.NewGroupService(db, rm, cfg, broker, st, logger)
	messages := services.NewMessageService(db, rm, broker)
	ingest := services.NewIngestService(db, rm, broker, st, transcriber, logger)
	profiles := services.NewProfileService(db, rm, st, logger)

	server := httpapi.NewServer(cfg, logger, broker, users, groups, messages, ingest, profiles)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		broker: broker,
		ingest: ingest,
		server: server,
	}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.StorageBackendFS:
		return storage.NewFileStorage(cfg.PublicDir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until the context is cancelled or a signal arrives, then
// drains: stop accepting requests, wait for running ingestions, close the
// broker so event streams end, and close the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Run()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
		}
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "error stopping http server", "error", err)
	}

	app.ingest.Wait()
	app.broker.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "error closing db", "error", err)
	}
}
