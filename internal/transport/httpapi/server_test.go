package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnel-engine/internal/common/config"
	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/funnel/engine"
	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/funnel/lead"
	"funnel-engine/internal/models"
	"funnel-engine/internal/service"
	"funnel-engine/internal/webhook"
)

// memSessions is a minimal in-memory SessionStore for handler tests.
type memSessions struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*models.Session
	answers  map[string][]models.SessionAnswer
}

func newMemSessions() *memSessions {
	return &memSessions{
		sessions: map[string]*models.Session{},
		answers:  map[string][]models.SessionAnswer{},
	}
}

func (m *memSessions) Create(_ context.Context, entryNodeID string, meta models.SessionMetadata) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now().UTC()
	id := "sess-" + strconvItoa(m.seq)
	s := &models.Session{
		ID: id, CreatedAt: now, UpdatedAt: now, Status: models.StatusActive,
		Tags: "[]", CurrentQuestionID: entryNodeID, LastActivityAt: now,
	}
	m.sessions[id] = s
	copied := *s
	return &copied, nil
}

func (m *memSessions) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memSessions) GetWithAnswers(ctx context.Context, id string) (*models.SessionWithAnswers, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.SessionWithAnswers{Session: *s, Answers: append([]models.SessionAnswer{}, m.answers[id]...)}, nil
}

func (m *memSessions) Update(_ context.Context, id string, patch models.SessionPatch) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	now := time.Now().UTC()
	if patch.Status != nil {
		s.Status = *patch.Status
		if *patch.Status == models.StatusCompleted && s.CompletedAt == nil {
			s.CompletedAt = &now
		}
	}
	if patch.FirstName != nil {
		s.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		s.LastName = patch.LastName
	}
	if patch.Email != nil {
		s.Email = patch.Email
	}
	if patch.Phone != nil {
		s.Phone = patch.Phone
	}
	if patch.CurrentQuestionID != nil {
		s.CurrentQuestionID = *patch.CurrentQuestionID
	}
	if patch.ScoreDelta != nil {
		s.QualificationScore += *patch.ScoreDelta
		tier := lead.Tier(s.QualificationScore)
		s.QualificationTier = &tier
	}
	if len(patch.AddTags) > 0 {
		s.Tags = models.EncodeTags(lead.MergeTags(models.ParseTags(s.Tags), patch.AddTags))
	}
	s.UpdatedAt = now
	if patch.Answer != nil {
		m.answers[id] = append(m.answers[id], models.SessionAnswer{
			SessionID: id, QuestionID: patch.Answer.QuestionID,
			AnswerID: patch.Answer.AnswerID, AnswerText: patch.Answer.AnswerText, CreatedAt: now,
		})
	}
	copied := *s
	return &copied, nil
}

func (m *memSessions) MarkWebhookSent(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok && s.WebhookSentAt == nil {
		sentAt := at.UTC()
		s.WebhookSentAt = &sentAt
	}
	return nil
}

func (m *memSessions) ListRecent(_ context.Context, limit int) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Session{}
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func strconvItoa(n int) string {
	return string(rune('0' + n))
}

type okDispatcher struct{}

func (okDispatcher) Send(context.Context, map[string]interface{}) webhook.Result {
	return webhook.Result{Success: true}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	g, err := graph.Default()
	require.NoError(t, err)

	svc := service.New(engine.New(g), newMemSessions(), nil, okDispatcher{}, nil, nil, logger.NewNoOpLogger())
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, svc, logger.NewNoOpLogger())
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "funnel_sessions_created_total")
}

func TestCreateSession(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeView(t, rec)
	assert.Equal(t, "active", view["status"])
	node := view["node"].(map[string]interface{})
	assert.Equal(t, "start", node["id"])
}

func TestGetUnknownSessionIs404(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/api/sessions/not-a-session", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"session not found"}`, rec.Body.String())
}

func TestAnswerFlow(t *testing.T) {
	h := newTestHandler(t)

	created := decodeView(t, doJSON(t, h, http.MethodPost, "/api/sessions", nil))
	id := created["sessionId"].(string)

	rec := doJSON(t, h, http.MethodPatch, "/api/sessions/"+id, stepRequest{
		Action: actionAnswer, AnswerID: "yes-serious",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec)
	assert.Equal(t, float64(15), view["qualificationScore"])
	node := view["node"].(map[string]interface{})
	assert.Equal(t, "motivation", node["id"])
}

func TestAnswerUnknownOptionIs400(t *testing.T) {
	h := newTestHandler(t)

	created := decodeView(t, doJSON(t, h, http.MethodPost, "/api/sessions", nil))
	id := created["sessionId"].(string)

	rec := doJSON(t, h, http.MethodPatch, "/api/sessions/"+id, stepRequest{
		Action: actionAnswer, AnswerID: "definitely-not-real",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadValidationErrorsAre422WithFields(t *testing.T) {
	h := newTestHandler(t)

	created := decodeView(t, doJSON(t, h, http.MethodPost, "/api/sessions", nil))
	id := created["sessionId"].(string)

	for _, answerID := range []string{"yes-serious", "asap"} {
		rec := doJSON(t, h, http.MethodPatch, "/api/sessions/"+id, stepRequest{
			Action: actionAnswer, AnswerID: answerID,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, h, http.MethodPatch, "/api/sessions/"+id, stepRequest{
		Action: actionLead, Fields: models.LeadFields{},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "firstName")
}

func TestUnknownActionIs400(t *testing.T) {
	h := newTestHandler(t)

	created := decodeView(t, doJSON(t, h, http.MethodPost, "/api/sessions", nil))
	id := created["sessionId"].(string)

	rec := doJSON(t, h, http.MethodPatch, "/api/sessions/"+id, stepRequest{Action: "teleport"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+id, endRequest{Action: "pause"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAbandonThenStepIs409(t *testing.T) {
	h := newTestHandler(t)

	created := decodeView(t, doJSON(t, h, http.MethodPost, "/api/sessions", nil))
	id := created["sessionId"].(string)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/"+id, endRequest{Action: actionAbandon})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, "abandoned", view["status"])

	rec = doJSON(t, h, http.MethodPatch, "/api/sessions/"+id, stepRequest{
		Action: actionAnswer, AnswerID: "yes-serious",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompleteSession(t *testing.T) {
	h := newTestHandler(t)

	created := decodeView(t, doJSON(t, h, http.MethodPost, "/api/sessions", nil))
	id := created["sessionId"].(string)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/"+id, endRequest{Action: actionComplete})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, "completed", view["status"])

	// Second completion conflicts.
	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+id, endRequest{Action: actionComplete})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListSessions(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/api/sessions", nil)
	doJSON(t, h, http.MethodPost, "/api/sessions", nil)

	rec := doJSON(t, h, http.MethodGet, "/api/sessions?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sessions []models.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Sessions, 2)
}
