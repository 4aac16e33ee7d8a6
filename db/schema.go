// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables and indexes if they don't exist.
// Safe to call multiple times. The SQL is restricted to the dialect
// shared by PostgreSQL and SQLite (no server-side defaults for
// timestamps; the store sets them explicitly).
func CreateSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_profile (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sub_profile (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL REFERENCES user_profile(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_profile_parent ON sub_profile(parent_id)`,
		`CREATE TABLE IF NOT EXISTS topic (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answer (
			id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL REFERENCES topic(id) ON DELETE CASCADE,
			author_id TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answer_topic ON answer(topic_id)`,
		`CREATE TABLE IF NOT EXISTS answer_vote (
			answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
			profile_id TEXT NOT NULL,
			level INTEGER NOT NULL CHECK (level >= 1 AND level <= 3),
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (answer_id, profile_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answer_vote_profile ON answer_vote(profile_id)`,
		`CREATE TABLE IF NOT EXISTS favorite (
			answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
			profile_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (answer_id, profile_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorite_profile ON favorite(profile_id)`,
		`CREATE TABLE IF NOT EXISTS comment (
			id TEXT PRIMARY KEY,
			answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
			profile_id TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comment_answer ON comment(answer_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema creation failed: %w", err)
		}
	}

	return nil
}
