package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/deppfellow/taskapi/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable records the applied migration version.
const VersionTable = "taskapi_schema_version"

// Migrate brings the task table up to date using jackc/tern.
//
// Migrations are templates: {{.qualified}} is the schema-qualified task table
// and {{.table}} the bare table name, both taken from the store config.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	if !cfg.Store.IsPostgres() {
		return errors.New("migrations need a postgres store url")
	}

	connConfig, err := ConnConfig(cfg.Store)
	if err != nil {
		return err
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	m.Data["qualified"] = pgx.Identifier{cfg.Store.Schema, cfg.Store.Table}.Sanitize()
	m.Data["table"] = cfg.Store.Table

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
