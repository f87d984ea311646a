// Package archive uploads the closed month's commission report once the month
// is over, so payroll keeps a copy even if work orders are edited later.
package archive

import (
	"context"
	"time"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/rs/zerolog"
)

type Archiver interface {
	Archive(ctx context.Context, report *domain.CommissionReport) (string, error)
}

type RunnerConfig struct {
	CheckInterval time.Duration
	Location      *time.Location
}

type RunnerProgress struct {
	Month      string
	Key        string
	ArchivedAt time.Time
}

type Runner struct {
	service  commission.Service
	archiver Archiver
	config   RunnerConfig
	now      func() time.Time
	done     chan struct{}
	progress chan RunnerProgress

	lastArchived string
}

func NewRunner(service commission.Service, archiver Archiver, config RunnerConfig) *Runner {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Hour
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Runner{
		service:  service,
		archiver: archiver,
		config:   config,
		now:      time.Now,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 12),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Run archives the previous month on start and again whenever a month closes,
// until ctx is cancelled. Failures are retried on the next tick.
func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("component", "archive").Logger()
	ctx = logger.WithContext(ctx)
	defer close(r.done)
	defer close(r.progress)

	ticker := time.NewTicker(r.config.CheckInterval)
	defer ticker.Stop()

	for {
		r.tick(ctx)

		select {
		case <-ctx.Done():
			logger.Info().Msg("archive runner stopped")
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	month := commission.PreviousMonth(r.now().In(r.config.Location))
	if month.String() == r.lastArchived {
		return
	}

	report, err := r.service.Report(ctx, month)
	if err != nil {
		logger.Error().Err(err).Str("month", month.String()).Msg("failed to compute report for archive")
		return
	}
	key, err := r.archiver.Archive(ctx, report)
	if err != nil {
		logger.Error().Err(err).Str("month", month.String()).Msg("failed to archive report")
		return
	}
	r.lastArchived = month.String()

	select {
	case r.progress <- RunnerProgress{Month: month.String(), Key: key, ArchivedAt: r.now()}:
	default:
	}
}
