package migration

import (
	"context"

	"featurecard/internal"
	"featurecard/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

var _ Migrator = (*MigrationRunner)(nil)

// Migrate runs m against db and logs the schema version reached.
func Migrate(ctx context.Context, db *sqlx.DB, m Migrator) error {
	if err := m.Run(ctx, db); err != nil {
		return errors.Wrapf(err, "migration to version %s failed", m.Version())
	}
	internal.DefaultLogger.With("Migration").Info("schema at version %s", m.Version())
	return nil
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDataFilesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create data_files table")
	}

	if err := r.addSheetColumn(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add data_files.sheet column")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createDataFilesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS data_files (
			id VARCHAR(255) PRIMARY KEY,
			original_filename VARCHAR(512) NOT NULL,
			file_path TEXT NOT NULL,
			format VARCHAR(16) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) addSheetColumn(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'data_files' AND column_name = 'sheet'
			) THEN
				ALTER TABLE data_files ADD COLUMN sheet VARCHAR(255) NOT NULL DEFAULT '';
			END IF;
		END $$;
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_data_files_created_at ON data_files(created_at DESC)
	`)
	return err
}
