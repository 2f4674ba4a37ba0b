package database

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m *migrate.Migrate
}

// MigrationStatus describes the schema version currently applied.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

func (s MigrationStatus) String() string {
	if !s.Applied {
		return "no migrations applied"
	}
	if s.Dirty {
		return fmt.Sprintf("version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("version %d", s.Version)
}

func NewMigrator(db *DB) (*Migrator, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded migrations")
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migrator")
	}
	return &Migrator{m: m}, nil
}

// RunMigrations executes all pending migrations
func (m *Migrator) RunMigrations() error {
	err := m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("Schema is up to date")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	log.Info("All migrations completed successfully")
	return nil
}

// Rollback reverts the given number of applied migrations.
func (m *Migrator) Rollback(steps int) error {
	if steps <= 0 {
		return errors.New("rollback steps must be positive")
	}
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "failed to roll back %d migrations", steps)
	}
	return nil
}

func (m *Migrator) GetMigrationStatus() (MigrationStatus, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, nil
	}
	if err != nil {
		return MigrationStatus{}, errors.Wrap(err, "failed to read migration version")
	}
	return MigrationStatus{Version: version, Dirty: dirty, Applied: true}, nil
}

// Close releases the migration source and the database driver. The driver
// closes the underlying pool, so only call it from one-shot commands.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		return errors.Wrap(srcErr, "failed to close migration source")
	}
	if dbErr != nil {
		return errors.Wrap(dbErr, "failed to close migration driver")
	}
	return nil
}
