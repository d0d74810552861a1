package service

import (
	"funnel-engine/internal/funnel/engine"
	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/models"
)

// AnswerOption is one selectable answer as shown to the visitor. Score and
// tags stay server-side; exposing them would let the client game the
// qualification.
type AnswerOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Subtext string `json:"subtext,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

// NodeView is the current step rendered for the visitor, with {{firstName}}
// placeholders already substituted.
type NodeView struct {
	ID          string         `json:"id"`
	Kind        graph.NodeKind `json:"type"`
	Headline    string         `json:"headline"`
	Subheadline string         `json:"subheadline,omitempty"`
	Answers     []AnswerOption `json:"answers,omitempty"`
	LeadFields  []string       `json:"leadFields,omitempty"`
	CanGoBack   bool           `json:"canGoBack"`
}

// SessionView is the API-facing snapshot of a run.
type SessionView struct {
	SessionID          string    `json:"sessionId"`
	Status             string    `json:"status"`
	Progress           int       `json:"progress"`
	QualificationScore int       `json:"qualificationScore"`
	QualificationTier  *string   `json:"qualificationTier"`
	Completed          bool      `json:"completed"`
	Node               *NodeView `json:"node,omitempty"`
}

func (s *FunnelService) view(session *models.Session, state *engine.RunState) *SessionView {
	v := &SessionView{
		SessionID:          session.ID,
		Status:             session.Status,
		Progress:           s.engine.Graph().Progress(session.CurrentQuestionID),
		QualificationScore: session.QualificationScore,
		QualificationTier:  session.QualificationTier,
	}
	if state != nil {
		v.Completed = state.Completed
	}

	node, err := s.engine.Graph().NodeByID(session.CurrentQuestionID)
	if err != nil {
		return v
	}

	firstName := ""
	if session.FirstName != nil {
		firstName = *session.FirstName
	}

	nv := &NodeView{
		ID:          node.ID,
		Kind:        node.Kind,
		Headline:    engine.Personalize(node.Headline, firstName),
		Subheadline: engine.Personalize(node.Subheadline, firstName),
		LeadFields:  node.LeadFields,
	}
	if state != nil {
		nv.CanGoBack = len(state.History) > 0 && !state.Completed
	}
	for _, ans := range node.Answers {
		nv.Answers = append(nv.Answers, AnswerOption{
			ID:      ans.ID,
			Text:    ans.Text,
			Subtext: ans.Subtext,
			Icon:    ans.Icon,
		})
	}
	v.Node = nv
	return v
}
