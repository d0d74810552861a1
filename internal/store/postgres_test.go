package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnel-engine/internal/common/database"
	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/models"
)

var sessionCols = []string{
	"id", "created_at", "updated_at", "status", "first_name", "last_name",
	"email", "phone", "qualification_score", "qualification_tier", "tags",
	"current_question_id", "last_activity_at", "completed_at", "webhook_sent_at",
	"user_agent", "ip_address", "referrer",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := &database.PostgresClient{DB: db}
	return NewPostgresStore(client, logger.NewNoOpLogger()), mock
}

func sessionRow(id string, score int, tags string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(sessionCols).AddRow(
		id, now, now, models.StatusActive, nil, nil, nil, nil,
		score, nil, tags, "start", now, nil, nil, nil, nil, nil,
	)
}

func tieredSessionRow(id string, score int, tier string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(sessionCols).AddRow(
		id, now, now, models.StatusActive, nil, nil, nil, nil,
		score, tier, "[]", "start", now, nil, nil, nil, nil, nil,
	)
}

func intPtr(v int) *int { return &v }

func TestCreateInsertsActiveSession(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO funnel_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	session, err := s.Create(context.Background(), "start", models.SessionMetadata{
		UserAgent: "test-agent",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.StatusActive, session.Status)
	assert.Equal(t, "start", session.CurrentQuestionID)
	assert.Equal(t, 0, session.QualificationScore)
	assert.Equal(t, "[]", session.Tags)
	require.NotNil(t, session.UserAgent)
	assert.Equal(t, "test-agent", *session.UserAgent)
	assert.Nil(t, session.IPAddress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM funnel_sessions WHERE id").
		WithArgs("missing-id").
		WillReturnRows(sqlmock.NewRows(sessionCols))

	_, err := s.Get(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAddsDeltaAndUnionsTags(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM funnel_sessions WHERE id (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 40, `["exploring"]`))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO session_answers").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	next := "motivation"
	text := "I'm paying cash"
	session, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		CurrentQuestionID: &next,
		ScoreDelta:        intPtr(30),
		AddTags:           []string{"cash-buyer", "exploring"},
		Answer: &models.AnswerStep{
			QuestionID: "payment-method",
			AnswerID:   "cash",
			AnswerText: &text,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 70, session.QualificationScore)
	assert.Equal(t, `["exploring","cash-buyer"]`, session.Tags)
	require.NotNil(t, session.QualificationTier)
	assert.Equal(t, models.TierCold, *session.QualificationTier)
	assert.Equal(t, "motivation", session.CurrentQuestionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReanswerUpsertKeepsOriginalCreatedAt(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 15, "[]"))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The conflict branch must not touch created_at, or a re-answered
	// question would jump to the end of the created_at-ordered answer log.
	mock.ExpectExec(`ON CONFLICT \(session_id, question_id\) DO UPDATE SET answer_id = EXCLUDED\.answer_id, answer_text = EXCLUDED\.answer_text$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	text := "Just curious for now"
	_, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		ScoreDelta: intPtr(2),
		Answer: &models.AnswerStep{
			QuestionID: "start",
			AnswerID:   "just-curious",
			AnswerText: &text,
		},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithoutAnswerSkipsAnswerUpsert(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 0, "[]"))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	first := "Dana"
	session, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		FirstName: &first,
	})
	require.NoError(t, err)
	require.NotNil(t, session.FirstName)
	assert.Equal(t, "Dana", *session.FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingSessionRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("missing-id").
		WillReturnRows(sqlmock.NewRows(sessionCols))
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), "missing-id", models.SessionPatch{ScoreDelta: intPtr(5)})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRecoversFromCorruptTags(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 10, "{not json"))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	session, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		AddTags: []string{"has-land"},
	})
	require.NoError(t, err)
	assert.Equal(t, `["has-land"]`, session.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompletionStampsCompletedAt(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(tieredSessionRow("sess-1", 160, models.TierHot))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status := models.StatusCompleted
	session, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, session.Status)
	require.NotNil(t, session.CompletedAt)
	require.NotNil(t, session.QualificationTier)
	assert.Equal(t, models.TierHot, *session.QualificationTier)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithoutScoreDeltaLeavesTierNull(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 0, "[]"))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Navigation alone never assigns a tier; that waits for the first
	// scoring answer.
	next := "motivation"
	session, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		CurrentQuestionID: &next,
	})
	require.NoError(t, err)
	assert.Nil(t, session.QualificationTier)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateZeroDeltaStillAssignsTier(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 0, "[]"))
	mock.ExpectExec("UPDATE funnel_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	session, err := s.Update(context.Background(), "sess-1", models.SessionPatch{
		ScoreDelta: intPtr(0),
	})
	require.NoError(t, err)
	require.NotNil(t, session.QualificationTier)
	assert.Equal(t, models.TierNurture, *session.QualificationTier)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkWebhookSent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE funnel_sessions SET webhook_sent_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.MarkWebhookSent(context.Background(), "sess-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sessionRow("sess-2", 20, "[]")
	now := time.Now().UTC()
	rows.AddRow("sess-1", now, now, models.StatusCompleted, nil, nil, nil, nil,
		120, nil, "[]", "result-warm", now, now, now, nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM funnel_sessions ORDER BY created_at DESC").
		WithArgs(25).
		WillReturnRows(rows)

	sessions, err := s.ListRecent(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-2", sessions[0].ID)
	assert.Equal(t, models.StatusCompleted, sessions[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithAnswers(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM funnel_sessions WHERE id").
		WithArgs("sess-1").
		WillReturnRows(sessionRow("sess-1", 45, `["has-land"]`))

	text := "Yes, I have land ready"
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM session_answers WHERE session_id").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "session_id", "question_id", "answer_id", "answer_text", "created_at",
		}).AddRow("ans-1", "sess-1", "land-situation", "have-land", text, now))

	out, err := s.GetWithAnswers(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, out.Answers, 1)
	assert.Equal(t, "have-land", out.Answers[0].AnswerID)
	require.NoError(t, mock.ExpectationsWereMet())
}
