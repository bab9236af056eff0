package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mgirault/lexicard/internal/config"
	"github.com/mgirault/lexicard/internal/events"
	"github.com/mgirault/lexicard/internal/platform/media"
	"github.com/mgirault/lexicard/internal/platform/postgres"
	"github.com/mgirault/lexicard/internal/platform/tts"
	"github.com/mgirault/lexicard/internal/queue"
	"github.com/mgirault/lexicard/internal/service"
)

// recentEventLimit bounds the event buffer served by the events endpoint.
const recentEventLimit = 128

// application holds the assembled components of the server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	queue   *queue.FileQueue
	cancels *queue.CancellationRegistry
	emitter *events.InMemoryEventEmitter
	recent  *events.RecentEvents
	worker  *queue.Worker
	monitor *queue.Monitor
}

// newApplication wires the stores, queue, worker and monitor together.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db, logger); err != nil {
		return nil, err
	}

	fileQueue, err := queue.NewFileQueue(cfg.Queue.FilePath, cfg.Queue.DedupWindow, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue: %w", err)
	}

	cancels := queue.NewCancellationRegistry()
	emitter := events.NewInMemoryEventEmitter(logger)
	recent := events.NewRecentEvents(recentEventLimit)
	emitter.RegisterHandler(recent)

	recordStore := postgres.NewPostgresRecordStore(db)
	mediaProcessor := media.NewProcessor(cfg.Media.FFmpegPath, cfg.Media.AudioDir)
	speech := tts.NewSynthesizer(cfg.TTS.Endpoint, cfg.TTS.LanguageCode, cfg.Media.AudioDir)
	recordService := service.NewRecordService(db, recordStore, mediaProcessor, speech, logger)

	worker := queue.NewWorker(fileQueue, recordService, cancels, emitter, queue.WorkerConfig{
		IdlePollInterval: cfg.Queue.IdlePollInterval,
		ItemPause:        cfg.Queue.ItemPause,
	}, logger)

	monitor := queue.NewMonitor(fileQueue, emitter, queue.MonitorConfig{
		Interval:           cfg.Queue.MonitorInterval,
		StuckItemAge:       cfg.Queue.StuckItemAge,
		CompletedRetention: cfg.Queue.CompletedRetention,
	}, logger)

	return &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		queue:   fileQueue,
		cancels: cancels,
		emitter: emitter,
		recent:  recent,
		worker:  worker,
		monitor: monitor,
	}, nil
}

// run starts the background worker and monitor, then serves HTTP until
// shutdown.
func (app *application) run(ctx context.Context) error {
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()

	app.worker.Start()
	go app.monitor.Run(monitorCtx)

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup stops the background components and closes the database.
func (app *application) cleanup() {
	app.worker.Stop()
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
