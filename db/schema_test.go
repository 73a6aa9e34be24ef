// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCreateSchemaIdempotent(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(ctx, conn); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"app_user", "question", "choice", "vote"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestSchemaConstraints(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	if err := CreateSchema(ctx, conn); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	now := time.Now().UTC()
	mustExec := func(query string, args ...any) {
		t.Helper()
		if _, err := conn.Exec(query, args...); err != nil {
			t.Fatalf("exec %q: %v", query, err)
		}
	}

	mustExec(`INSERT INTO app_user (id, username, password_hash, created_at) VALUES ('u1', 'alice', 'x', $1)`, now)
	mustExec(`INSERT INTO question (id, question_text, publish_at) VALUES ('q1', 'First?', $1)`, now)
	mustExec(`INSERT INTO question (id, question_text, publish_at) VALUES ('q2', 'Second?', $1)`, now)
	mustExec(`INSERT INTO choice (id, question_id, choice_text) VALUES ('c1', 'q1', 'Yes')`)
	mustExec(`INSERT INTO choice (id, question_id, choice_text) VALUES ('c2', 'q2', 'No')`)
	mustExec(`INSERT INTO vote (id, user_id, question_id, choice_id, created_at, updated_at) VALUES ('v1', 'u1', 'q1', 'c1', $1, $1)`, now)

	t.Run("second vote for same question rejected", func(t *testing.T) {
		_, err := conn.Exec(`INSERT INTO vote (id, user_id, question_id, choice_id, created_at, updated_at) VALUES ('v2', 'u1', 'q1', 'c1', $1, $1)`, now)
		if err == nil {
			t.Error("Expected unique violation on (user_id, question_id)")
		}
	})

	t.Run("vote cannot point at another question's choice", func(t *testing.T) {
		_, err := conn.Exec(`INSERT INTO vote (id, user_id, question_id, choice_id, created_at, updated_at) VALUES ('v3', 'u1', 'q1', 'c2', $1, $1)`, now)
		if err == nil {
			t.Error("Expected foreign key violation for mismatched choice")
		}
	})

	t.Run("deleting a question cascades", func(t *testing.T) {
		mustExec(`DELETE FROM question WHERE id = 'q1'`)

		var choices, votes int
		conn.QueryRow(`SELECT COUNT(*) FROM choice WHERE question_id = 'q1'`).Scan(&choices)
		conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE question_id = 'q1'`).Scan(&votes)
		if choices != 0 || votes != 0 {
			t.Errorf("Expected cascade delete, found %d choices and %d votes", choices, votes)
		}
	})
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"polls.db", "polls.db?_pragma=foreign_keys(1)"},
		{"file:polls.db?cache=shared", "file:polls.db?cache=shared&_pragma=foreign_keys(1)"},
		{"polls.db?_pragma=foreign_keys(1)", "polls.db?_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	conn, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	// No idle pool: every query gets a freshly opened connection
	conn.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("PRAGMA foreign_keys: %v", err)
		}
		if enabled != 1 {
			t.Errorf("connection %d: foreign_keys = %d, want 1", i+1, enabled)
		}
	}
}
