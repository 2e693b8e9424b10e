package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/migrations"
)

// MigrateUp applies all pending embedded migrations. It opens a
// separate database/sql handle via the pgx stdlib driver because
// goose does not speak the native pgx interface.
func MigrateUp(ctx context.Context, cfg config.DatabaseConfig) error {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return fmt.Errorf("parse database DSN: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
