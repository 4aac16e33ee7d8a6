// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tsukkomi/tsukkomi/auth"
	"github.com/tsukkomi/tsukkomi/models"
)

// SQLStore implements Store over database/sql. The SQL sticks to the
// dialect shared by lib/pq and modernc.org/sqlite: $N placeholders,
// each used once in increasing order, and ON CONFLICT upserts.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetUsers(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM user_profile ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.UserProfile{}
	index := map[string]int{}
	for rows.Next() {
		var u models.UserProfile
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	subRows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, name FROM sub_profile ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query sub profiles: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var sp models.SubProfile
		if err := subRows.Scan(&sp.ID, &sp.ParentID, &sp.Name); err != nil {
			return nil, fmt.Errorf("scan sub profile: %w", err)
		}
		if i, ok := index[sp.ParentID]; ok {
			users[i].SubProfiles = append(users[i].SubProfiles, sp)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sub profiles: %w", err)
	}

	return users, nil
}

func (s *SQLStore) GetTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author_id, created_at FROM topic ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.AuthorID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (s *SQLStore) GetTopic(ctx context.Context, topicID string) (models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, author_id, created_at FROM topic WHERE id = $1
	`, topicID).Scan(&t.ID, &t.Title, &t.AuthorID, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Topic{}, ErrNotFound
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("query topic: %w", err)
	}
	return t, nil
}

func (s *SQLStore) CreateTopic(ctx context.Context, title, authorID string) (models.Topic, error) {
	id, err := auth.GenerateID(16)
	if err != nil {
		return models.Topic{}, err
	}
	t := models.Topic{ID: id, Title: title, AuthorID: authorID, CreatedAt: time.Now().UTC()}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO topic (id, title, author_id, created_at) VALUES ($1, $2, $3, $4)
	`, t.ID, t.Title, t.AuthorID, t.CreatedAt)
	if err != nil {
		return models.Topic{}, fmt.Errorf("insert topic: %w", err)
	}
	return t, nil
}

func (s *SQLStore) GetAnswersByTopic(ctx context.Context, topicID string) ([]models.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic_id, author_id, body, created_at
		FROM answer WHERE topic_id = $1 ORDER BY created_at, id
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.TopicID, &a.AuthorID, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *SQLStore) CreateAnswer(ctx context.Context, topicID, authorID, body string) (models.Answer, error) {
	id, err := auth.GenerateID(16)
	if err != nil {
		return models.Answer{}, err
	}
	a := models.Answer{ID: id, TopicID: topicID, AuthorID: authorID, Body: body, CreatedAt: time.Now().UTC()}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO answer (id, topic_id, author_id, body, created_at) VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.TopicID, a.AuthorID, a.Body, a.CreatedAt)
	if err != nil {
		return models.Answer{}, fmt.Errorf("insert answer: %w", err)
	}
	return a, nil
}

func (s *SQLStore) ToggleFavorite(ctx context.Context, answerID, profileID string) (models.FavoriteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.FavoriteResult{}, fmt.Errorf("begin toggle favorite: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorite WHERE answer_id = $1 AND profile_id = $2)
	`, answerID, profileID).Scan(&exists)
	if err != nil {
		return models.FavoriteResult{}, fmt.Errorf("query favorite: %w", err)
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM favorite WHERE answer_id = $1 AND profile_id = $2
		`, answerID, profileID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO favorite (answer_id, profile_id, created_at) VALUES ($1, $2, $3)
		`, answerID, profileID, time.Now().UTC())
	}
	if err != nil {
		return models.FavoriteResult{}, fmt.Errorf("toggle favorite: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorite WHERE answer_id = $1
	`, answerID).Scan(&count)
	if err != nil {
		return models.FavoriteResult{}, fmt.Errorf("count favorites: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.FavoriteResult{}, fmt.Errorf("commit toggle favorite: %w", err)
	}

	return models.FavoriteResult{AnswerID: answerID, Favorited: !exists, Count: count}, nil
}

func (s *SQLStore) VoteAnswer(ctx context.Context, answerID, profileID string, level int) (models.VoteResult, error) {
	if level < models.VoteLevelNone || level > models.VoteLevelMax {
		return models.VoteResult{}, fmt.Errorf("invalid vote level %d", level)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("begin vote: %w", err)
	}
	defer tx.Rollback()

	if level == models.VoteLevelNone {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM answer_vote WHERE answer_id = $1 AND profile_id = $2
		`, answerID, profileID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO answer_vote (answer_id, profile_id, level, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (answer_id, profile_id)
			DO UPDATE SET level = excluded.level, created_at = excluded.created_at
		`, answerID, profileID, level, time.Now().UTC())
	}
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("record vote: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT level, COUNT(*) FROM answer_vote WHERE answer_id = $1 GROUP BY level
	`, answerID)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("count votes: %w", err)
	}
	defer rows.Close()

	counts := models.VoteCounts{}
	for rows.Next() {
		var lvl, n int
		if err := rows.Scan(&lvl, &n); err != nil {
			return models.VoteResult{}, fmt.Errorf("scan vote count: %w", err)
		}
		counts[lvl] = n
	}
	if err := rows.Err(); err != nil {
		return models.VoteResult{}, fmt.Errorf("iterate vote counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.VoteResult{}, fmt.Errorf("commit vote: %w", err)
	}

	return models.VoteResult{AnswerID: answerID, Level: level, Counts: counts}, nil
}

func (s *SQLStore) AddComment(ctx context.Context, answerID, profileID, text string) (models.Comment, error) {
	id, err := auth.GenerateID(16)
	if err != nil {
		return models.Comment{}, err
	}
	c := models.Comment{
		ID:          id,
		AnswerID:    answerID,
		ProfileID:   profileID,
		ProfileName: s.profileName(ctx, profileID),
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO comment (id, answer_id, profile_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.AnswerID, c.ProfileID, c.Text, c.CreatedAt)
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (s *SQLStore) GetCommentsByAnswer(ctx context.Context, answerID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, answer_id, profile_id, text, created_at
		FROM comment WHERE answer_id = $1 ORDER BY created_at, id
	`, answerID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.AnswerID, &c.ProfileID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	for i := range comments {
		comments[i].ProfileName = s.profileName(ctx, comments[i].ProfileID)
	}

	return comments, nil
}

func (s *SQLStore) GetUserData(ctx context.Context, profileID string, answerIDs []string) (models.UserData, error) {
	data := models.UserData{Votes: map[string]int{}, Favorites: []string{}}

	wanted := map[string]bool{}
	for _, id := range answerIDs {
		wanted[id] = true
	}
	// Empty filter means everything. Filtering happens client-side of
	// the query to keep the SQL portable across both drivers.
	include := func(answerID string) bool {
		return len(wanted) == 0 || wanted[answerID]
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT answer_id, level FROM answer_vote WHERE profile_id = $1
	`, profileID)
	if err != nil {
		return data, fmt.Errorf("query user votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var answerID string
		var level int
		if err := rows.Scan(&answerID, &level); err != nil {
			return data, fmt.Errorf("scan user vote: %w", err)
		}
		if include(answerID) {
			data.Votes[answerID] = level
		}
	}
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("iterate user votes: %w", err)
	}

	favRows, err := s.db.QueryContext(ctx, `
		SELECT answer_id FROM favorite WHERE profile_id = $1 ORDER BY created_at, answer_id
	`, profileID)
	if err != nil {
		return data, fmt.Errorf("query user favorites: %w", err)
	}
	defer favRows.Close()

	for favRows.Next() {
		var answerID string
		if err := favRows.Scan(&answerID); err != nil {
			return data, fmt.Errorf("scan user favorite: %w", err)
		}
		if include(answerID) {
			data.Favorites = append(data.Favorites, answerID)
		}
	}
	return data, favRows.Err()
}

func (s *SQLStore) GetTopicResults(ctx context.Context, topicID string) ([]models.AnswerStats, error) {
	answers, err := s.GetAnswersByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	stats := []models.AnswerStats{}
	index := map[string]int{}
	for _, a := range answers {
		index[a.ID] = len(stats)
		stats = append(stats, models.AnswerStats{AnswerID: a.ID, Body: a.Body, Counts: models.VoteCounts{}})
	}

	voteRows, err := s.db.QueryContext(ctx, `
		SELECT v.answer_id, v.level, COUNT(*)
		FROM answer_vote v
		JOIN answer a ON a.id = v.answer_id
		WHERE a.topic_id = $1
		GROUP BY v.answer_id, v.level
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query topic votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var answerID string
		var level, n int
		if err := voteRows.Scan(&answerID, &level, &n); err != nil {
			return nil, fmt.Errorf("scan topic vote: %w", err)
		}
		if i, ok := index[answerID]; ok {
			stats[i].Counts[level] = n
		}
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic votes: %w", err)
	}

	favRows, err := s.db.QueryContext(ctx, `
		SELECT f.answer_id, COUNT(*)
		FROM favorite f
		JOIN answer a ON a.id = f.answer_id
		WHERE a.topic_id = $1
		GROUP BY f.answer_id
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query topic favorites: %w", err)
	}
	defer favRows.Close()

	for favRows.Next() {
		var answerID string
		var n int
		if err := favRows.Scan(&answerID, &n); err != nil {
			return nil, fmt.Errorf("scan topic favorite: %w", err)
		}
		if i, ok := index[answerID]; ok {
			stats[i].FavoriteCount = n
		}
	}
	return stats, favRows.Err()
}

// profileName resolves a display name for a main or sub profile.
// Best effort: unknown profiles get an empty name rather than an error.
func (s *SQLStore) profileName(ctx context.Context, profileID string) string {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM user_profile WHERE id = $1
	`, profileID).Scan(&name)
	if err == nil {
		return name
	}
	err = s.db.QueryRowContext(ctx, `
		SELECT name FROM sub_profile WHERE id = $1
	`, profileID).Scan(&name)
	if err == nil {
		return name
	}
	return ""
}
