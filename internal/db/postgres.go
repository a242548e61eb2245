package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Connect opens the shared pool and makes sure the schema exists.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "db: parse DATABASE_URL")
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "db: open pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "db: ping")
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logrus.Info("✅ Connected to PostgreSQL")
	return pool, nil
}

// initSchema creates or updates the database schema.
func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	menuDocumentsSQL := `
		CREATE TABLE IF NOT EXISTS menu_documents (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			doc JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := pool.Exec(ctx, menuDocumentsSQL); err != nil {
		return errors.Wrap(err, "db: init schema")
	}

	logrus.Info("✅ Schema initialized")
	return nil
}
