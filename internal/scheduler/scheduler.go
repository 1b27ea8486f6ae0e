package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
	"github.com/mamadbah2/fabric-ledger/internal/metrics"
	"github.com/mamadbah2/fabric-ledger/pkg/clients/notifier"
)

const (
	digestTitle = "Weekly fabric purchases"
	jobTimeout  = 2 * time.Minute
)

// DigestBuilder produces the weekly summary and its text rendering.
type DigestBuilder interface {
	WeeklyDigest(ctx context.Context) (models.PurchaseSummary, string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	digests  DigestBuilder
	notifier notifier.Client
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler running jobs in loc. notifierClient
// and m may be nil.
func NewScheduler(schedule string, loc *time.Location, digests DigestBuilder, notifierClient notifier.Client, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		digests:  digests,
		notifier: notifierClient,
		metrics:  m,
		logger:   logger,
	}
}

// Start registers the weekly digest and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendWeeklyDigest); err != nil {
		return fmt.Errorf("schedule weekly digest %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("weekly digest failed", zap.Error(err))
	}
}

// RunOnce builds, stores and delivers one weekly digest.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.logger.Info("generating weekly digest")

	summary, text, err := s.digests.WeeklyDigest(ctx)
	if err != nil {
		s.metrics.ReportRun("failed")
		return fmt.Errorf("build weekly digest: %w", err)
	}

	if s.notifier == nil {
		s.logger.Info("weekly digest stored, no notifier configured", zap.Int("records", summary.Records))
		s.metrics.ReportRun("ok")
		return nil
	}

	if err := s.notifier.Send(ctx, notifier.Message{Title: digestTitle, Text: text}); err != nil {
		s.metrics.ReportRun("failed")
		return fmt.Errorf("deliver weekly digest: %w", err)
	}

	s.logger.Info("weekly digest sent", zap.Int("records", summary.Records))
	s.metrics.ReportRun("ok")
	return nil
}
