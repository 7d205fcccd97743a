package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SchemaVersion is the newest schema delta compiled into this binary.
// A database reporting a higher version was prepared by a newer build.
const SchemaVersion = 5

// ErrSchemaFromFuture means the database schema is ahead of this binary.
// Running against it risks silent data corruption, so startup must abort.
var ErrSchemaFromFuture = errors.New("database schema is newer than this binary")

//go:embed *.sql
var MigrationFiles embed.FS

// PrepareDatabase brings the schema up to SchemaVersion by applying all
// pending deltas. If autoMigrate is false it only verifies the recorded
// version and logs what is pending.
func PrepareDatabase(db *sql.DB, autoMigrate bool) error {
	sourceDriver, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if err := checkVersion(version, SchemaVersion); err != nil {
		return err
	}

	if dirty {
		slog.Warn("Database is in dirty state - migration was interrupted",
			"version", version,
			"action", "attempting automatic recovery",
		)

		// Deltas are idempotent (IF NOT EXISTS), so forcing back to the
		// recorded version and re-running is safe.
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to recover dirty migration state at version %d: %w", version, err)
		}
		slog.Info("Recovered dirty migration state", "version", version)
	}

	if !autoMigrate {
		slog.Info("Auto-migration disabled, skipping migrations",
			"current_version", version,
			"target_version", SchemaVersion,
		)
		return nil
	}

	slog.Info("Preparing database schema",
		"current_version", version,
		"target_version", SchemaVersion,
	)

	err = m.Up()
	if err != nil {
		if err == migrate.ErrNoChange {
			slog.Info("Database schema is up to date", "version", version)
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get updated migration version: %w", err)
	}

	slog.Info("Database schema prepared",
		"from_version", version,
		"to_version", newVersion,
	)

	return nil
}

// checkVersion rejects a schema written by a newer binary. Older versions
// are fine: pending deltas bring them forward.
func checkVersion(recorded, compiled uint) error {
	if recorded > compiled {
		return fmt.Errorf("%w: database at version %d, binary supports up to %d",
			ErrSchemaFromFuture, recorded, compiled)
	}
	return nil
}
