package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Migrator обертка над goose, применяет миграции при старте сервиса
type Migrator struct {
	db             *sql.DB
	migrationsPath string
	log            Logger
}

// NewMigrator создает новый мигратор
func NewMigrator(db *sql.DB, migrationsPath string, log Logger) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{
		db:             db,
		migrationsPath: migrationsPath,
		log:            log,
	}, nil
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.log.Info("Applying database migrations from %s", mg.migrationsPath)

	if err := goose.UpContext(ctx, mg.db, mg.migrationsPath); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return fmt.Errorf("get migrations version: %w", err)
	}

	mg.log.Info("Migrations applied, schema version %d", version)
	return nil
}
