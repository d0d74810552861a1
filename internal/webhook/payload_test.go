package webhook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/models"
)

func completedSession(t *testing.T) *models.SessionWithAnswers {
	t.Helper()
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	completed := created.Add(6 * time.Minute)
	first, last := "Dana", "Ray"
	email, phone := "dana@example.com", "5125550142"
	tier := models.TierHot
	cashText := "I'm paying cash"
	startText := "Absolutely, I'm ready to make this happen"

	return &models.SessionWithAnswers{
		Session: models.Session{
			ID:                 "sess-1",
			CreatedAt:          created,
			Status:             models.StatusCompleted,
			FirstName:          &first,
			LastName:           &last,
			Email:              &email,
			Phone:              &phone,
			QualificationScore: 185,
			QualificationTier:  &tier,
			Tags:               `["serious-buyer","cash-buyer","hot-lead"]`,
			CompletedAt:        &completed,
		},
		Answers: []models.SessionAnswer{
			{QuestionID: "start", AnswerID: "yes-serious", AnswerText: &startText},
			{QuestionID: "payment-method", AnswerID: "cash", AnswerText: &cashText},
		},
	}
}

func TestBuildPayloadFlattensAnswers(t *testing.T) {
	g, err := graph.Default()
	require.NoError(t, err)

	payload := BuildPayload(g, completedSession(t))

	assert.Equal(t, "sess-1", payload["sessionId"])
	assert.Equal(t, models.StatusCompleted, payload["sessionStatus"])
	assert.Equal(t, "2026-03-14T10:00:00Z", payload["createdAt"])
	assert.Equal(t, "2026-03-14T10:06:00Z", payload["completedAt"])
	assert.Equal(t, 185, payload["qualificationScore"])
	assert.Equal(t, []string{"serious-buyer", "cash-buyer", "hot-lead"}, payload["tags"])

	// Answered questions carry their answer text.
	assert.Equal(t, "I'm paying cash", payload["answer_payment_method"])
	assert.Equal(t, "Absolutely, I'm ready to make this happen", payload["answer_start"])

	// Every question node has a flat field; unanswered ones are explicit nulls.
	for _, id := range []string{
		"answer_motivation", "answer_timeline", "answer_land_situation",
		"answer_cash_budget", "answer_down_payment_amount", "answer_final_question",
	} {
		require.Contains(t, payload, id)
		assert.Nil(t, payload[id])
	}

	// One flat field per question node in the graph.
	flatCount := 0
	for key := range payload {
		if len(key) > 7 && key[:7] == "answer_" && key != "answers" {
			flatCount++
		}
	}
	assert.Equal(t, 20, flatCount)
}

func TestBuildPayloadStructuredAnswers(t *testing.T) {
	g, err := graph.Default()
	require.NoError(t, err)

	payload := BuildPayload(g, completedSession(t))
	answers, ok := payload["answers"].(map[string]AnswerDetail)
	require.True(t, ok)
	require.Contains(t, answers, "payment-method")
	assert.Equal(t, "cash", answers["payment-method"].AnswerID)
}

func TestBuildPayloadCorruptTagsDegradeToEmpty(t *testing.T) {
	g, err := graph.Default()
	require.NoError(t, err)

	session := completedSession(t)
	session.Tags = "{definitely not json"

	payload := BuildPayload(g, session)
	assert.Equal(t, []string{}, payload["tags"])
}

func TestBuildPayloadSurvivesJSONRoundTrip(t *testing.T) {
	g, err := graph.Default()
	require.NoError(t, err)

	raw, err := json.Marshal(BuildPayload(g, completedSession(t)))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "sess-1", decoded["sessionId"])
	assert.Contains(t, decoded, "answer_land_preference_after_education")
}

func TestValidatePayload(t *testing.T) {
	g, err := graph.Default()
	require.NoError(t, err)

	payload := BuildPayload(g, completedSession(t))
	require.NoError(t, ValidatePayload(payload))

	payload["sessionStatus"] = "half-done"
	require.Error(t, ValidatePayload(payload))

	delete(payload, "sessionStatus")
	require.Error(t, ValidatePayload(payload))
}
