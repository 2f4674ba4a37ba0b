package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"concert-ticketing/internal/database"
)

var tracer = otel.Tracer("concert-ticketing/internal/jobs")

// sweepQueries holds one batched delete per retained table. Each deletes the
// oldest rows first; users skips rows locked by live transactions.
var sweepQueries = map[string]string{
	"tickets": `
		DELETE FROM tickets
		WHERE id IN (
			SELECT id FROM tickets
			WHERE created_date < $1
			ORDER BY created_date ASC
			LIMIT $2
		)`,
	"orders": `
		DELETE FROM orders
		WHERE id IN (
			SELECT id FROM orders
			WHERE created_date < $1
			ORDER BY created_date ASC
			LIMIT $2
		)`,
	"users": `
		DELETE FROM users
		WHERE id IN (
			SELECT id FROM users
			WHERE created_date < $1
			ORDER BY created_date ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`,
}

type CleanupConfig struct {
	BatchSize        int
	ThresholdMinutes int
	Tables           []string
}

// CleanupJob deletes expired rows in bounded batches so no single statement
// holds locks for long.
type CleanupJob struct {
	db        sqlx.ExecerContext
	batchSize int
	threshold time.Duration
	tables    []string
	now       func() time.Time
}

func NewCleanupJob(db sqlx.ExecerContext, cfg CleanupConfig) (*CleanupJob, error) {
	if cfg.BatchSize <= 0 {
		return nil, errors.New("cleanup batch size must be positive")
	}
	for _, table := range cfg.Tables {
		if _, ok := sweepQueries[table]; !ok {
			return nil, errors.Errorf("table %q is not eligible for cleanup", table)
		}
	}

	return &CleanupJob{
		db:        db,
		batchSize: cfg.BatchSize,
		threshold: time.Duration(cfg.ThresholdMinutes) * time.Minute,
		tables:    cfg.Tables,
		now:       time.Now,
	}, nil
}

func (j *CleanupJob) Name() string {
	return "database-cleanup"
}

// Execute sweeps every configured table once. Failures are logged and end
// the sweep of the affected table only.
func (j *CleanupJob) Execute(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "CleanupJob.Execute")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Error("Database cleanup panicked")
		}
	}()

	cutoff := j.now().UTC().Add(-j.threshold)
	for _, table := range j.tables {
		logger := log.WithField("table", table)

		deleted, err := j.sweepTable(ctx, table, cutoff)
		span.SetAttributes(attribute.Int64("deleted."+table, deleted))

		switch {
		case err == nil:
			logger.WithField("deleted", deleted).Debug("Database cleanup finished")
		case database.IsLockContention(err):
			logger.WithField("deleted", deleted).WithError(err).Info("Database cleanup stopped on lock contention")
		default:
			logger.WithField("deleted", deleted).WithError(err).Error("Database cleanup failed")
		}
	}
}

func (j *CleanupJob) sweepTable(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	query := sweepQueries[table]

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		result, err := j.db.ExecContext(ctx, query, cutoff, j.batchSize)
		if err != nil {
			return total, errors.Wrapf(err, "failed to delete from %s", table)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return total, errors.Wrap(err, "failed to get affected rows")
		}
		if n == 0 {
			return total, nil
		}
		total += n
	}
}
