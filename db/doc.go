// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL sticks to the dialect shared by PostgreSQL (lib/pq)
and SQLite (modernc.org/sqlite) so both backends run the same schema.

# Tables

  - user_profile: Accounts
  - sub_profile: Child profiles operated under a parent account
  - topic: Questions/themes that collect answers
  - answer: Submissions under a topic
  - answer_vote: One numeric vote (level 1-3) per profile per answer
  - favorite: One favorite per profile per answer
  - comment: Comments on answers

# Relationships

	user_profile 1──* sub_profile
	topic 1──* answer
	answer 1──* answer_vote
	answer 1──* favorite
	answer 1──* comment

All foreign keys use ON DELETE CASCADE. Votes and favorites have a
composite primary key (answer_id, profile_id), which is what makes
vote upserts and favorite toggles race-safe at the database level.
*/
package db
