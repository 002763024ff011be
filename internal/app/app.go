package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shalom-302/scraapbackend/internal/api"
	"github.com/Shalom-302/scraapbackend/internal/config"
	"github.com/Shalom-302/scraapbackend/internal/extractor"
	"github.com/Shalom-302/scraapbackend/internal/llm"
	"github.com/Shalom-302/scraapbackend/internal/logging"
	"github.com/Shalom-302/scraapbackend/internal/notify"
	"github.com/Shalom-302/scraapbackend/internal/ports"
	"github.com/Shalom-302/scraapbackend/internal/queue"
	"github.com/Shalom-302/scraapbackend/internal/scraper"
	"github.com/Shalom-302/scraapbackend/internal/storage"
	"github.com/Shalom-302/scraapbackend/internal/veille"
)

// Application wires config to adapters and owns the process lifecycle: one
// HTTP server, one queue worker, one optional scheduler.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	server    *api.Server
	worker    *queue.Worker
	scheduler *queue.Scheduler
	closers   []func() error
}

// New builds the full application graph. It fails fast when Postgres or
// Redis cannot be reached.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := storage.NewPostgresRepository(db)

	redisClient, err := queue.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		db.Close()
		return nil, err
	}
	runQueue := queue.NewRedisQueue(redisClient, cfg.Redis.QueueKey)

	registry := scraper.DefaultRegistry(cfg.Veille.DeniedDomains)

	analyzer := llm.NewDeepSeekClient(cfg.DeepSeek, cfg.Veille.MaxAnalysisChar)

	workflow := veille.NewWorkflow(veille.Deps{
		Registry:        registry,
		Fetcher:         scraper.NewFetcher(nil),
		Extractor:       extractor.NewExtractor(nil),
		Analyzer:        analyzer,
		Repository:      repo,
		Logger:          baseLogger.With("component", "workflow"),
		MaxSteps:        cfg.Veille.MaxSteps,
		MinContentChars: cfg.Veille.MinContentChars,
	})

	worker := queue.NewWorker(redisClient, cfg.Redis.QueueKey, workflow.Run,
		baseLogger.With("component", "worker"))

	scheduler := queue.NewScheduler(cfg.Veille.ScheduleEvery, cfg.Veille.ScheduleQuery,
		runQueue, baseLogger.With("component", "scheduler"))

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = notify.NewTelegramNotifier(tg.BotToken, tg.ChatID)
	}

	handler := api.NewHandler(runQueue, repo, notifier, baseLogger.With("component", "api"))
	server := api.NewServer(cfg.Server.Addr, api.NewRouter(handler),
		baseLogger.With("component", "http"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		server:    server,
		worker:    worker,
		scheduler: scheduler,
		closers:   []func() error{redisClient.Close, db.Close},
	}, nil
}

// Run starts the worker, the scheduler and the HTTP server, and blocks until
// ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	a.worker.Start(ctx)
	a.scheduler.Start(ctx)
	defer a.scheduler.Stop()

	err := a.server.Run(ctx)

	for _, closer := range a.closers {
		if cerr := closer(); cerr != nil {
			a.logger.Warn("close failed", "error", cerr)
		}
	}
	return err
}
