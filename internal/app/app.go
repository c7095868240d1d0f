package app

import (
	"context"
	"log/slog"

	"NewsBot/internal/config"
	"NewsBot/internal/infrastructure/feed"
	"NewsBot/internal/infrastructure/llm"
	"NewsBot/internal/infrastructure/scheduler"
	"NewsBot/internal/infrastructure/storage"
	"NewsBot/internal/infrastructure/twitter"
	"NewsBot/internal/logging"
	"NewsBot/internal/ports"
	"NewsBot/internal/usecase"
	"NewsBot/internal/webapp"
)

// Application wires configuration to use cases and adapters.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repository *storage.SQLiteRepository
	ingestor   *usecase.Ingestor
	publisher  *usecase.Publisher
	cycle      *usecase.Cycle
}

// New opens the store and builds all pipeline components.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	repository, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	sources := make([]ports.FeedSource, 0, len(cfg.Feeds))
	for _, url := range cfg.Feeds {
		sources = append(sources, feed.NewSource(url, cfg.Settings.EntriesPerFeed))
	}

	ingestor := usecase.NewIngestor(sources, repository,
		baseLogger.With("component", "ingestor"))

	generator := llm.NewClient(cfg.LLM, baseLogger.With("component", "llm"))
	notifier := twitter.NewNotifier(cfg.Twitter, baseLogger.With("component", "twitter"))

	publisher := usecase.NewPublisher(usecase.PublisherDeps{
		Repository: repository,
		Generator:  generator,
		Notifier:   notifier,
		DebugMode:  cfg.Settings.DebugMode,
		CharLimit:  cfg.Settings.PostCharLimit,
		Logger:     baseLogger.With("component", "publisher"),
	})

	cycle := usecase.NewCycle(ingestor, publisher, baseLogger.With("component", "cycle"))

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repository,
		ingestor:   ingestor,
		publisher:  publisher,
		cycle:      cycle,
	}, nil
}

// Close releases the store.
func (a *Application) Close() error {
	return a.repository.Close()
}

// Repository exposes the store for the administrative commands.
func (a *Application) Repository() *storage.SQLiteRepository {
	return a.repository
}

// Fetch runs one ingestion pass over all configured feeds.
func (a *Application) Fetch(ctx context.Context) error {
	return a.ingestor.Run(ctx)
}

// Post runs one publish pass over at most one pending article.
func (a *Application) Post(ctx context.Context) error {
	return a.publisher.Run(ctx)
}

// RunLoop executes ingest-then-publish cycles on the configured interval
// until the context is canceled. Cycles are strictly sequential; running a
// second process against the same store is the invoker's responsibility to
// avoid.
func (a *Application) RunLoop(ctx context.Context) error {
	driver := scheduler.NewTickerScheduler(a.cfg.Settings.RunInterval())
	sched := usecase.NewScheduler(driver, a.cycle, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Serve blocks running the read-only article listing.
func (a *Application) Serve(ctx context.Context) error {
	server := webapp.NewServer(a.repository, a.logger.With("component", "webapp"))
	return server.ListenAndServe(ctx, a.cfg.Webapp.Addr)
}
