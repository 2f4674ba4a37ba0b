package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// TxFunc is a unit of work run against an open transaction. ctx is the
// context the transaction was begun with.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// InTx runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back fully otherwise.
func (db *DB) InTx(ctx context.Context, fn TxFunc) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithError(rbErr).Warn("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// RetryTx runs fn in a transaction under the connection's retry policy. A
// transient failure rolls the attempt back and restarts fn from scratch.
// Once begun, a transaction is not abandoned when ctx is cancelled; ctx only
// stops further retries. fn receives the detached context.
func (db *DB) RetryTx(ctx context.Context, fn TxFunc) error {
	txCtx := context.WithoutCancel(ctx)
	return WithRetry(ctx, db.retry, IsTransient, func() error {
		return db.InTx(txCtx, fn)
	})
}
