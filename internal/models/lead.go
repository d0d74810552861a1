package models

// Qualification tiers, best to worst. Tier is derived from the cumulative
// qualification score and only ever computed server-side.
const (
	TierHot     = "hot"
	TierWarm    = "warm"
	TierCold    = "cold"
	TierNurture = "nurture"
)

// LeadFields carries the contact fields collected by lead-capture steps.
// Only the fields a given step asks for are set.
type LeadFields struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SessionPatch is a merge-style update applied to a session. Nil pointer
// fields are left untouched. ScoreDelta, when present, is added to the stored
// score and triggers a tier recompute; AddTags is unioned into the stored tag
// set. Callers never send absolute score or tag values.
type SessionPatch struct {
	Status            *string     `json:"status,omitempty"`
	FirstName         *string     `json:"firstName,omitempty"`
	LastName          *string     `json:"lastName,omitempty"`
	Email             *string     `json:"email,omitempty"`
	Phone             *string     `json:"phone,omitempty"`
	CurrentQuestionID *string     `json:"currentQuestionId,omitempty"`
	ScoreDelta        *int        `json:"scoreDelta,omitempty"`
	AddTags           []string    `json:"addTags,omitempty"`
	Answer            *AnswerStep `json:"answer,omitempty"`
}

// AnswerStep records one answered question alongside a patch.
type AnswerStep struct {
	QuestionID string  `json:"questionId"`
	AnswerID   string  `json:"answerId"`
	AnswerText *string `json:"answerText,omitempty"`
}
