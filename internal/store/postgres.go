package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"funnel-engine/internal/common/database"
	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/funnel/lead"
	"funnel-engine/internal/models"
)

const sessionColumns = `id, created_at, updated_at, status, first_name, last_name, email, phone,
	qualification_score, qualification_tier, tags, current_question_id, last_activity_at,
	completed_at, webhook_sent_at, user_agent, ip_address, referrer`

// PostgresStore is the SessionStore implementation over PostgreSQL.
type PostgresStore struct {
	client *database.PostgresClient
	log    logger.Logger
}

// NewPostgresStore creates a session store over the given client.
func NewPostgresStore(client *database.PostgresClient, log logger.Logger) *PostgresStore {
	return &PostgresStore{client: client, log: log}
}

// Migrate creates the session tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS funnel_sessions (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			first_name TEXT,
			last_name TEXT,
			email TEXT,
			phone TEXT,
			qualification_score INTEGER NOT NULL DEFAULT 0,
			qualification_tier TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			current_question_id TEXT NOT NULL,
			last_activity_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			webhook_sent_at TIMESTAMPTZ,
			user_agent TEXT,
			ip_address TEXT,
			referrer TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS session_answers (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES funnel_sessions(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL,
			answer_id TEXT NOT NULL,
			answer_text TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (session_id, question_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_funnel_sessions_created_at ON funnel_sessions (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_session_answers_session_id ON session_answers (session_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.client.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new active session positioned at the funnel entry.
func (s *PostgresStore) Create(ctx context.Context, entryNodeID string, meta models.SessionMetadata) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:                uuid.New().String(),
		CreatedAt:         now,
		UpdatedAt:         now,
		Status:            models.StatusActive,
		Tags:              "[]",
		CurrentQuestionID: entryNodeID,
		LastActivityAt:    now,
		UserAgent:         optional(meta.UserAgent),
		IPAddress:         optional(meta.IPAddress),
		Referrer:          optional(meta.Referrer),
	}

	_, err := s.client.Exec(ctx, `
		INSERT INTO funnel_sessions (
			id, created_at, updated_at, status, qualification_score, tags,
			current_question_id, last_activity_at, user_agent, ip_address, referrer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		session.ID, session.CreatedAt, session.UpdatedAt, session.Status,
		session.QualificationScore, session.Tags, session.CurrentQuestionID,
		session.LastActivityAt, session.UserAgent, session.IPAddress, session.Referrer,
	)
	if err != nil {
		return nil, errors.NewSessionCreateFailedError(err)
	}

	s.log.Info("Session created", map[string]interface{}{
		"sessionId": session.ID,
		"entry":     entryNodeID,
	})
	return session, nil
}

// Get returns the session row or ErrSessionNotFound.
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Session, error) {
	row := s.client.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM funnel_sessions WHERE id = $1`, id)
	return scanSession(row)
}

// GetWithAnswers returns the session and its answers ordered by recording time.
func (s *PostgresStore) GetWithAnswers(ctx context.Context, id string) (*models.SessionWithAnswers, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.client.Query(ctx, `
		SELECT id, session_id, question_id, answer_id, answer_text, created_at
		FROM session_answers WHERE session_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, errors.NewSessionUpdateFailedError(id, err)
	}
	defer rows.Close()

	answers := []models.SessionAnswer{}
	for rows.Next() {
		var a models.SessionAnswer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.AnswerID, &a.AnswerText, &a.CreatedAt); err != nil {
			return nil, errors.NewSessionUpdateFailedError(id, err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSessionUpdateFailedError(id, err)
	}

	return &models.SessionWithAnswers{Session: *session, Answers: answers}, nil
}

// Update applies a merge patch inside a transaction. The row is locked for
// the duration so concurrent patches serialize: each one reads the committed
// score and tags, adds its delta, unions its tags and recomputes the tier
// before writing back.
func (s *PostgresStore) Update(ctx context.Context, id string, patch models.SessionPatch) (*models.Session, error) {
	tx, err := s.client.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewSessionUpdateFailedError(id, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM funnel_sessions WHERE id = $1 FOR UPDATE`, id)
	session, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyPatch(session, patch, now)

	_, err = tx.ExecContext(ctx, `
		UPDATE funnel_sessions SET
			updated_at = $2, status = $3, first_name = $4, last_name = $5,
			email = $6, phone = $7, qualification_score = $8, qualification_tier = $9,
			tags = $10, current_question_id = $11, last_activity_at = $12, completed_at = $13
		WHERE id = $1`,
		session.ID, session.UpdatedAt, session.Status, session.FirstName, session.LastName,
		session.Email, session.Phone, session.QualificationScore, session.QualificationTier,
		session.Tags, session.CurrentQuestionID, session.LastActivityAt, session.CompletedAt,
	)
	if err != nil {
		return nil, errors.NewSessionUpdateFailedError(id, err)
	}

	if patch.Answer != nil {
		// A re-answer replaces the row but keeps its original created_at so
		// the answer log stays in first-answered order.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_answers (id, session_id, question_id, answer_id, answer_text, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (session_id, question_id)
			DO UPDATE SET answer_id = EXCLUDED.answer_id, answer_text = EXCLUDED.answer_text`,
			uuid.New().String(), id, patch.Answer.QuestionID, patch.Answer.AnswerID,
			patch.Answer.AnswerText, now,
		)
		if err != nil {
			return nil, errors.NewAnswerRecordFailedError(id, patch.Answer.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewSessionUpdateFailedError(id, err)
	}
	return session, nil
}

// MarkWebhookSent stamps delivery time once. A second call finds the stamp
// already set and leaves it alone.
func (s *PostgresStore) MarkWebhookSent(ctx context.Context, id string, at time.Time) error {
	_, err := s.client.Exec(ctx, `
		UPDATE funnel_sessions SET webhook_sent_at = $2, updated_at = $2
		WHERE id = $1 AND webhook_sent_at IS NULL`, id, at.UTC())
	if err != nil {
		return errors.NewSessionUpdateFailedError(id, err)
	}
	return nil
}

// ListRecent returns the newest sessions first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.client.Query(ctx,
		`SELECT `+sessionColumns+` FROM funnel_sessions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// applyPatch merges the patch into the loaded row. Score is additive and tags
// are unioned; direct score or tag overwrites do not exist on purpose.
func applyPatch(session *models.Session, patch models.SessionPatch, now time.Time) {
	if patch.Status != nil {
		session.Status = *patch.Status
		if *patch.Status == models.StatusCompleted && session.CompletedAt == nil {
			completedAt := now
			session.CompletedAt = &completedAt
		}
	}
	if patch.FirstName != nil {
		session.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		session.LastName = patch.LastName
	}
	if patch.Email != nil {
		session.Email = patch.Email
	}
	if patch.Phone != nil {
		session.Phone = patch.Phone
	}
	if patch.CurrentQuestionID != nil {
		session.CurrentQuestionID = *patch.CurrentQuestionID
	}

	if patch.ScoreDelta != nil {
		session.QualificationScore += *patch.ScoreDelta
		// Tier stays null until the first scoring answer arrives.
		tier := lead.Tier(session.QualificationScore)
		session.QualificationTier = &tier
	}
	if len(patch.AddTags) > 0 {
		merged := lead.MergeTags(models.ParseTags(session.Tags), patch.AddTags)
		session.Tags = models.EncodeTags(merged)
	}

	session.UpdatedAt = now
	session.LastActivityAt = now
}

func scanSession(row *sql.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Status, &s.FirstName, &s.LastName,
		&s.Email, &s.Phone, &s.QualificationScore, &s.QualificationTier, &s.Tags,
		&s.CurrentQuestionID, &s.LastActivityAt, &s.CompletedAt, &s.WebhookSentAt,
		&s.UserAgent, &s.IPAddress, &s.Referrer,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSessionRows(rows *sql.Rows) (*models.Session, error) {
	var s models.Session
	err := rows.Scan(
		&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Status, &s.FirstName, &s.LastName,
		&s.Email, &s.Phone, &s.QualificationScore, &s.QualificationTier, &s.Tags,
		&s.CurrentQuestionID, &s.LastActivityAt, &s.CompletedAt, &s.WebhookSentAt,
		&s.UserAgent, &s.IPAddress, &s.Referrer,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
