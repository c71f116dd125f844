package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/tennis-courts/config"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":   cfg.Host,
		"dbname": cfg.DBName,
	}).Info("Successfully connected to PostgreSQL")
	return db, nil
}

// DSN builds a lib/pq connection string.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS courts (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS guests (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id BIGSERIAL PRIMARY KEY,
		court_id BIGINT NOT NULL REFERENCES courts(id),
		starts_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (ends_at > starts_at)
	)`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGSERIAL PRIMARY KEY,
		guest_id BIGINT NOT NULL REFERENCES guests(id),
		schedule_id BIGINT NOT NULL REFERENCES schedules(id),
		value NUMERIC(12,2) NOT NULL,
		refund_value NUMERIC(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'READY_TO_PLAY',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (value >= 0 AND refund_value >= 0)
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_reservations_schedule_id ON reservations(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_ends_at ON schedules(ends_at)`,
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
