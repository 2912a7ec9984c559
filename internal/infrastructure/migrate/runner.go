// Package migrate applies the schema migrations for the re-engagement engine.
package migrate

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file source for migrations
	"go.uber.org/zap"
)

// Config locates the database and the migration files.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
}

// Runner applies, rolls back and inspects schema migrations.
type Runner struct {
	config *Config
	logger *zap.Logger
}

// NewRunner creates a runner. A nil logger defaults to a no-op one.
func NewRunner(config *Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		config: config,
		logger: logger,
	}
}

// withMigrate opens a fresh connection, builds the migrate instance and runs
// fn against it. Each call holds the connection only for its own duration.
func (r *Runner) withMigrate(fn func(*migrate.Migrate) error) error {
	db, err := sql.Open("postgres", r.config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			r.logger.Warn("Failed to close database connection", zap.Error(closeErr))
		}
	}()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", r.config.MigrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return fn(m)
}

// Up applies all pending migrations and fails on a dirty schema.
func (r *Runner) Up() error {
	return r.withMigrate(func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to get version: %w", err)
		}
		if dirty {
			return fmt.Errorf("database is in dirty state at version %d", version)
		}

		r.logger.Info("Migrations applied", zap.Uint("version", version))
		return nil
	})
}

// Steps applies n migrations forward, or backward when n is negative.
func (r *Runner) Steps(n int) error {
	return r.withMigrate(func(m *migrate.Migrate) error {
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply %d migration steps: %w", n, err)
		}
		return nil
	})
}

// Version returns the current migration version. A fresh database reports
// version zero.
func (r *Runner) Version() (version uint, dirty bool, err error) {
	err = r.withMigrate(func(m *migrate.Migrate) error {
		v, d, versionErr := m.Version()
		if errors.Is(versionErr, migrate.ErrNilVersion) {
			return nil
		}
		if versionErr != nil {
			return fmt.Errorf("failed to get version: %w", versionErr)
		}
		version, dirty = v, d
		return nil
	})
	return version, dirty, err
}
