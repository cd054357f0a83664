package store

import (
	"context"
	"embed"
	"log/slog"

	"github.com/pkg/errors"
)

// Migration System Overview:
//
// Each driver has a single LATEST.sql under store/migration/{driver}/ holding
// the full schema. Statements use IF NOT EXISTS, so applying it again to an
// initialized database is harmless.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the name of the latest schema file.
const LatestSchemaFileName = "LATEST.sql"

// Migrate applies the latest schema when the database is not initialized yet.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		slog.Debug("database already initialized", "driver", s.profile.Driver)
		return nil
	}

	schema, err := migrationFS.ReadFile("migration/" + s.profile.Driver + "/" + LatestSchemaFileName)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema for driver %s", s.profile.Driver)
	}

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(schema)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit schema")
	}

	slog.Info("applied latest schema", "driver", s.profile.Driver)
	return nil
}
