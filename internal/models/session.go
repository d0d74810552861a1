package models

import "time"

// Session status values. A session is created active and ends exactly once as
// completed or abandoned.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// SessionMetadata captures request metadata at creation time only.
type SessionMetadata struct {
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// Session is the durable, server-side record of one funnel run. It is the
// source of truth for score, tags and completion; the in-memory run state is
// a disposable projection of it.
type Session struct {
	ID                 string     `json:"id" db:"id"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
	Status             string     `json:"status" db:"status"`
	FirstName          *string    `json:"firstName" db:"first_name"`
	LastName           *string    `json:"lastName" db:"last_name"`
	Email              *string    `json:"email" db:"email"`
	Phone              *string    `json:"phone" db:"phone"`
	QualificationScore int        `json:"qualificationScore" db:"qualification_score"`
	QualificationTier  *string    `json:"qualificationTier" db:"qualification_tier"`
	Tags               string     `json:"tags" db:"tags"` // serialized JSON array
	CurrentQuestionID  string     `json:"currentQuestionId" db:"current_question_id"`
	LastActivityAt     time.Time  `json:"lastActivityAt" db:"last_activity_at"`
	CompletedAt        *time.Time `json:"completedAt" db:"completed_at"`
	WebhookSentAt      *time.Time `json:"webhookSentAt" db:"webhook_sent_at"`
	UserAgent          *string    `json:"userAgent" db:"user_agent"`
	IPAddress          *string    `json:"ipAddress" db:"ip_address"`
	Referrer           *string    `json:"referrer" db:"referrer"`
}

// IsCompleted reports whether the session reached the completed status.
func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// WebhookDelivered reports whether the CRM webhook was already sent for this
// session. Completion flows must check this before dispatching again.
func (s *Session) WebhookDelivered() bool {
	return s.WebhookSentAt != nil
}

// SessionAnswer is the audit-trail record of one answered question. At most
// one row exists per (session, question); resubmission overwrites in place.
type SessionAnswer struct {
	ID         string    `json:"id" db:"id"`
	SessionID  string    `json:"sessionId" db:"session_id"`
	QuestionID string    `json:"questionId" db:"question_id"`
	AnswerID   string    `json:"answerId" db:"answer_id"`
	AnswerText *string   `json:"answerText" db:"answer_text"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// SessionWithAnswers bundles a session with its ordered answer log for
// webhook payload assembly.
type SessionWithAnswers struct {
	Session
	Answers []SessionAnswer `json:"answers"`
}
