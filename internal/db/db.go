package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

func Connect(driver, connString string) (*sql.DB, error) {
	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Rebind turns `?` placeholders into `$n` for postgres.
// Queries are written once, mysql style.
func Rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS tasks (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS task_events (
			id          BIGSERIAL PRIMARY KEY,
			event_name  TEXT NOT NULL,
			event_time  TIMESTAMPTZ NOT NULL,
			session_id  TEXT NULL,
			platform    TEXT NOT NULL,
			app_version TEXT NOT NULL DEFAULT '',
			properties  JSONB NOT NULL
		)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS tasks (
			id          BIGINT PRIMARY KEY AUTO_INCREMENT,
			title       VARCHAR(500) NOT NULL,
			description TEXT NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		)`,
		`CREATE TABLE IF NOT EXISTS task_events (
			id          BIGINT PRIMARY KEY AUTO_INCREMENT,
			event_name  VARCHAR(64) NOT NULL,
			event_time  TIMESTAMP(6) NOT NULL,
			session_id  VARCHAR(128) NULL,
			platform    VARCHAR(32) NOT NULL,
			app_version VARCHAR(64) NOT NULL DEFAULT '',
			properties  JSON NOT NULL
		)`,
	},
}

// Migrate creates the tables used by the SQL store and the event recorder.
func Migrate(ctx context.Context, dbx *sql.DB, driver string) error {
	stmts, ok := schema[driver]
	if !ok {
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := dbx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
