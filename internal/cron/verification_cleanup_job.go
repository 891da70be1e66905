package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/internal/accounts"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
)

const staleAccountRetentionDays = 30

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// VerificationCleanupJobParams configure the verification cleanup job.
type VerificationCleanupJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Retention int
}

type verificationCleanupJob struct {
	logg      *logger.Logger
	db        txRunner
	retention int
	now       func() time.Time
}

// NewVerificationCleanupJob builds the job that clears expired verification
// codes and purges unverified accounts past the retention window.
func NewVerificationCleanupJob(params VerificationCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = staleAccountRetentionDays
	}
	return &verificationCleanupJob{
		logg:      params.Logger,
		db:        params.DB,
		retention: retention,
		now:       time.Now,
	}, nil
}

func (j *verificationCleanupJob) Name() string { return "verification-cleanup" }

func (j *verificationCleanupJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	staleCutoff := now.Add(-time.Duration(j.retention) * 24 * time.Hour)

	var cleared, purged int64
	var errs []error

	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := accounts.NewRepository(tx)

		rows, err := repo.ClearExpiredCodes(ctx, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("clear expired codes: %w", err))
		} else {
			cleared = rows
		}

		rows, err = repo.DeleteStaleUnverified(ctx, staleCutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("purge stale accounts: %w", err))
		} else {
			purged = rows
		}

		return multierr.Combine(errs...)
	})
	if err != nil {
		return fmt.Errorf("verification cleanup: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"codes_cleared":  cleared,
		"accounts_gone":  purged,
		"retention_days": j.retention,
	})
	j.logg.Info(logCtx, "verification cleanup complete")
	return nil
}
