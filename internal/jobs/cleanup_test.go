package jobs

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// cutoffArg matches the age cutoff passed to each batched delete.
type cutoffArg struct {
	want time.Time
}

func (a cutoffArg) Match(v driver.Value) bool {
	got, ok := v.(time.Time)
	return ok && got.Equal(a.want)
}

func newTestJob(t *testing.T, batchSize int, tables ...string) (*CleanupJob, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	job, err := NewCleanupJob(sqlx.NewDb(sqlDB, "postgres"), CleanupConfig{
		BatchSize:        batchSize,
		ThresholdMinutes: 30,
		Tables:           tables,
	})
	require.NoError(t, err)
	job.now = func() time.Time { return fixedNow }
	return job, mock
}

func TestCleanupJob_DeletesInBatchesUntilEmpty(t *testing.T) {
	job, mock := newTestJob(t, 2, "tickets")
	cutoff := cutoffArg{want: fixedNow.Add(-30 * time.Minute)}

	for _, n := range []int64{2, 2, 1, 0} {
		mock.ExpectExec("DELETE FROM tickets WHERE id IN \\( SELECT id FROM tickets WHERE created_date < \\$1 ORDER BY created_date ASC LIMIT \\$2 \\)").
			WithArgs(cutoff, 2).
			WillReturnResult(sqlmock.NewResult(0, n))
	}

	job.Execute(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupJob_UsersSkipLockedRows(t *testing.T) {
	job, mock := newTestJob(t, 1000, "users")

	mock.ExpectExec("DELETE FROM users WHERE id IN \\(.+FOR UPDATE SKIP LOCKED \\)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	job.Execute(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupJob_LockContentionStopsOnlyThatTable(t *testing.T) {
	job, mock := newTestJob(t, 2, "tickets", "users")

	mock.ExpectExec("DELETE FROM tickets").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM tickets").WillReturnError(&pq.Error{Code: "40P01"})
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NotPanics(t, func() { job.Execute(context.Background()) })
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupJob_OtherErrorsAreSwallowed(t *testing.T) {
	job, mock := newTestJob(t, 2, "tickets", "users")

	mock.ExpectExec("DELETE FROM tickets").WillReturnError(errors.New("connection refused"))
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NotPanics(t, func() { job.Execute(context.Background()) })
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupJob_StopsWhenContextDone(t *testing.T) {
	job, mock := newTestJob(t, 2, "tickets")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job.Execute(ctx)
	assert.NoError(t, mock.ExpectationsWereMet(), "no statements after cancellation")
}

func TestNewCleanupJob_Validation(t *testing.T) {
	_, err := NewCleanupJob(nil, CleanupConfig{BatchSize: 0, Tables: []string{"tickets"}})
	assert.Error(t, err)

	_, err = NewCleanupJob(nil, CleanupConfig{BatchSize: 10, Tables: []string{"concerts"}})
	assert.ErrorContains(t, err, "concerts")
}
