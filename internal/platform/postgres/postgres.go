package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Health checks database reachability.
func Health(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// EnsureSchema creates the tables this service owns. Statements are
// idempotent; the service is the sole owner of its schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		password_hash   TEXT NOT NULL,
		full_name       TEXT NOT NULL,
		phone           TEXT NOT NULL DEFAULT '',
		passport_number TEXT NOT NULL DEFAULT '',
		residence       TEXT NOT NULL DEFAULT '',
		is_verified     BOOLEAN NOT NULL DEFAULT FALSE,
		verify_token    TEXT NOT NULL DEFAULT '',
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		is_superadmin BOOLEAN NOT NULL DEFAULT FALSE,
		last_login_at TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS destinations (
		id           TEXT PRIMARY KEY,
		country      TEXT NOT NULL,
		country_code TEXT NOT NULL UNIQUE,
		enabled      BOOLEAN NOT NULL DEFAULT FALSE,
		image_url    TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		message      TEXT NOT NULL DEFAULT '',
		requirements TEXT NOT NULL DEFAULT '',
		visa_types   JSONB NOT NULL DEFAULT '[]',
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		user_email      TEXT NOT NULL,
		user_name       TEXT NOT NULL,
		user_phone      TEXT NOT NULL,
		passport_number TEXT NOT NULL,
		destination_id  TEXT NOT NULL,
		country         TEXT NOT NULL,
		visa_type_id    TEXT NOT NULL,
		visa_name       TEXT NOT NULL,
		price           BIGINT NOT NULL,
		currency        TEXT NOT NULL,
		deposit_paid    BIGINT NOT NULL DEFAULT 0,
		total_paid      BIGINT NOT NULL DEFAULT 0,
		status          TEXT NOT NULL,
		progress_step   INT NOT NULL DEFAULT 1,
		pickup_location TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		admin_notes     TEXT NOT NULL DEFAULT '',
		documents       JSONB NOT NULL DEFAULT '[]',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS applications_user_id_idx ON applications (user_id)`,
	`CREATE INDEX IF NOT EXISTS applications_status_idx ON applications (status)`,
	`CREATE TABLE IF NOT EXISTS testimonials (
		id          TEXT PRIMARY KEY,
		client_name TEXT NOT NULL,
		visa_type   TEXT NOT NULL,
		description TEXT NOT NULL,
		image_data  TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS advisors (
		id            TEXT PRIMARY KEY,
		business_name TEXT NOT NULL,
		email         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		country       TEXT NOT NULL DEFAULT '',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		link_url    TEXT NOT NULL DEFAULT '',
		link_text   TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id         TEXT PRIMARY KEY,
		action     TEXT NOT NULL,
		actor_id   TEXT NOT NULL DEFAULT '',
		subject    TEXT NOT NULL DEFAULT '',
		detail     JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS audit_events_actor_idx ON audit_events (actor_id)`,
}
