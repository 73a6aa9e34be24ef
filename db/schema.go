// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names registered by lib/pq and modernc.org/sqlite.
const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// Open connects to the database and verifies the connection.
// dbType is "sqlite" or "postgres".
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "postgres":
		driver = driverPostgres
	case "sqlite", "":
		driver = driverSQLite
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	if driver == driverSQLite {
		url = sqliteDSN(url)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == driverSQLite {
		// One connection keeps :memory: databases alive and serializes writers.
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// sqliteDSN adds the foreign_keys pragma so the driver applies it to every
// connection it opens, including replacements for broken ones.
func sqliteDSN(url string) string {
	const pragma = "_pragma=foreign_keys(1)"
	if strings.Contains(url, pragma) {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + pragma
	}
	return url + "?" + pragma
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    question_text TEXT NOT NULL,
    publish_at TIMESTAMP NOT NULL,
    end_at TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_question_publish_at ON question(publish_at)`,

	`CREATE TABLE IF NOT EXISTS choice (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_text TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    UNIQUE (id, question_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_choice_question_id ON choice(question_id)`,

	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL,
    choice_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, question_id),
    FOREIGN KEY (choice_id, question_id) REFERENCES choice(id, question_id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_choice_id ON vote(choice_id)`,
}
