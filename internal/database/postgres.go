package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"go-ojs/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// PostgresDB wraps a database/sql pool for Supabase-style Postgres tables.
type PostgresDB struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id                   TEXT PRIMARY KEY,
	journal_id           TEXT NOT NULL,
	current_stage        TEXT NOT NULL,
	status               TEXT NOT NULL,
	is_archived          BOOLEAN NOT NULL DEFAULT FALSE,
	version              BIGINT NOT NULL DEFAULT 0,
	scheduled_publish_at TIMESTAMPTZ NULL,
	submitted_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS submission_activity_logs (
	id            TEXT PRIMARY KEY,
	submission_id TEXT NOT NULL REFERENCES submissions(id),
	message       TEXT NOT NULL,
	category      TEXT NOT NULL,
	actor_id      TEXT NOT NULL,
	metadata      JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS submission_activity_logs_submission_idx
	ON submission_activity_logs (submission_id, created_at DESC);
CREATE TABLE IF NOT EXISTS journal_user_roles (
	user_id    TEXT NOT NULL,
	journal_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	PRIMARY KEY (user_id, journal_id, role)
);
CREATE TABLE IF NOT EXISTS app_logs (
	id             BIGSERIAL PRIMARY KEY,
	app_id         TEXT NOT NULL,
	message        TEXT NOT NULL,
	caller         TEXT NOT NULL DEFAULT '',
	log_level_id   INT NOT NULL,
	created_on_utc TIMESTAMPTZ NOT NULL
);
`

// NewPostgres opens the pool, verifies it and applies the schema.
func NewPostgres(lc fx.Lifecycle, cfg *config.Config) (*PostgresDB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("Connected to Postgres!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Postgres pool...")
			return db.Close()
		},
	})

	return &PostgresDB{DB: db}, nil
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (p *PostgresDB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
