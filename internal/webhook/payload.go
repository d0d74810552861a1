// Package webhook assembles and delivers the CRM notification sent once per
// completed session.
package webhook

import (
	"strings"
	"time"

	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/models"
)

// AnswerDetail is the structured form of one answer inside the payload.
type AnswerDetail struct {
	QuestionID string  `json:"questionId"`
	AnswerID   string  `json:"answerId"`
	AnswerText *string `json:"answerText"`
}

// BuildPayload flattens a completed session into the CRM contract. Besides
// the structured answers map, every question node in the graph gets a flat
// answer_<id> field so CRM field mapping never depends on which branch the
// visitor took; questions off the taken path carry an explicit null.
func BuildPayload(g *graph.Graph, session *models.SessionWithAnswers) map[string]interface{} {
	answers := make(map[string]AnswerDetail, len(session.Answers))
	for _, a := range session.Answers {
		answers[a.QuestionID] = AnswerDetail{
			QuestionID: a.QuestionID,
			AnswerID:   a.AnswerID,
			AnswerText: a.AnswerText,
		}
	}

	payload := map[string]interface{}{
		"sessionId":     session.ID,
		"sessionStatus": session.Status,
		"createdAt":     session.CreatedAt.UTC().Format(time.RFC3339),
		"completedAt":   formatTime(session.CompletedAt),

		"firstName": session.FirstName,
		"lastName":  session.LastName,
		"email":     session.Email,
		"phone":     session.Phone,

		"qualificationScore": session.QualificationScore,
		"qualificationTier":  session.QualificationTier,
		"tags":               models.ParseTags(session.Tags),

		"answers": answers,

		"userAgent": session.UserAgent,
		"ipAddress": session.IPAddress,
		"referrer":  session.Referrer,
	}

	for _, questionID := range g.QuestionIDs() {
		key := "answer_" + strings.ReplaceAll(questionID, "-", "_")
		if detail, ok := answers[questionID]; ok && detail.AnswerText != nil && *detail.AnswerText != "" {
			payload[key] = *detail.AnswerText
		} else {
			payload[key] = nil
		}
	}

	return payload
}

func formatTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
