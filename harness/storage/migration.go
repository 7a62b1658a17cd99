package storage

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	SQL     string
}

// migrations defines all database migrations in apply order. The lesson
// indexes are deliberately not here; they are applied explicitly between
// benchmark passes via ApplyLessonIndices.
var migrations = []Migration{
	{Version: 1, SQL: DepartmentsTable},
	{Version: 2, SQL: UsersTable},
	{Version: 3, SQL: OrdersTable},
	{Version: 4, SQL: BenchmarkResultsTable},
	{Version: 5, SQL: BaselineIndices()},
}

// RunMigrations runs all pending migrations. Any failure aborts the run;
// the schema must be exactly right before generation starts.
func RunMigrations(db *sql.DB) error {
	log := logrus.WithField("component", "migration")

	if err := createMigrationTable(db); err != nil {
		return err
	}

	for _, migration := range migrations {
		applied, err := isMigrationApplied(db, migration.Version)
		if err != nil {
			return err
		}

		if applied {
			log.WithField("version", migration.Version).Debug("Migration already applied")
			continue
		}

		log.WithField("version", migration.Version).Info("Applying migration")
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// createMigrationTable creates the migration tracking table.
func createMigrationTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := db.Exec(query)
	return err
}

// isMigrationApplied checks if a migration version has been applied.
func isMigrationApplied(db *sql.DB, version int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM schema_migrations WHERE version = $1`
	err := db.QueryRow(query, version).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyMigration applies a single migration inside a transaction.
func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, migration.Version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
