package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsBot/internal/ports"
)

// Cycle runs one full ingest-then-publish pass.
type Cycle struct {
	ingestor  *Ingestor
	publisher *Publisher
	logger    *slog.Logger
}

// NewCycle glues the two pipelines together for scheduled execution.
func NewCycle(ingestor *Ingestor, publisher *Publisher, logger *slog.Logger) *Cycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cycle{ingestor: ingestor, publisher: publisher, logger: logger}
}

// Run ingests feeds and then publishes at most one pending article. An
// ingestion failure still lets the publish step run on previously stored
// articles.
func (c *Cycle) Run(ctx context.Context) error {
	if err := c.ingestor.Run(ctx); err != nil {
		c.logger.Error("ingestion failed", "error", err)
	}
	return c.publisher.Run(ctx)
}

// Scheduler wires the interval driver with the pipeline cycle.
type Scheduler struct {
	driver ports.Scheduler
	cycle  *Cycle
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring cycles.
func NewScheduler(driver ports.Scheduler, cycle *Cycle, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, cycle: cycle, logger: logger}
}

// Start registers the cycle with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.cycle == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.cycle.Run(ctx); err != nil {
			s.logger.Error("cycle failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
