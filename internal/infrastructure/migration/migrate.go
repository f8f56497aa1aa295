// Package migration applies and authors the SQL schema migrations under migrations/.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator runs golang-migrate against a Postgres connection
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// Status is the schema version recorded in schema_migrations
type Status struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
	Applied bool `json:"applied"`
}

// New creates a Migrator reading migration files from migrationsPath
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger.Named("migrate")}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return m.logApplied("Migrations applied")
}

// Down rolls back n migrations, or all of them when n <= 0
func (m *Migrator) Down(n int) error {
	var err error
	if n <= 0 {
		err = m.migrate.Down()
	} else {
		err = m.migrate.Steps(-n)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return m.logApplied("Migrations rolled back")
}

// Status reports the current schema version
func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

// Force records version as applied without running it; used to clear a dirty state
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) logApplied(msg string) error {
	status, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info(msg,
		zap.Uint("version", status.Version),
		zap.Bool("dirty", status.Dirty),
	)
	return nil
}

// Apply brings the schema on db up to date. The caller keeps ownership of db.
func Apply(db *sql.DB, migrationsPath string, logger *zap.Logger) error {
	m, err := New(db, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
