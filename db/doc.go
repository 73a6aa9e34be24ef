// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open selects the driver from the database type and pings the server:

	conn, err := db.Open(ctx, "postgres", "postgres://...")
	conn, err := db.Open(ctx, "sqlite", "file:polls.db")

SQLite connections get foreign keys enabled and are limited to a single
open connection, which also keeps ":memory:" databases alive for tests.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The statements are portable between SQLite and PostgreSQL.

# Tables

  - app_user: accounts (unique username, bcrypt hash)
  - question: poll prompt with publish_at and optional end_at
  - choice: answers per question
  - vote: one row per (user, question)

# Relationships

	question 1──* choice
	choice   1──* vote
	app_user 1──* vote

All foreign keys use ON DELETE CASCADE. A vote references its choice through
(choice_id, question_id), so a vote can only point at a choice of the same
question, and UNIQUE (user_id, question_id) keeps one vote per user per
question.
*/
package db
