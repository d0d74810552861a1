// Package errors provides standardized error handling for the funnel engine.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors - fatal at startup.
	ErrCodeGraphValidationFailed ErrorCode = "GRAPH_VALIDATION_FAILED"
	ErrCodeConfigInvalid         ErrorCode = "CONFIG_INVALID"

	// Validation errors - recoverable, surfaced per field.
	ErrCodeLeadValidationFailed ErrorCode = "LEAD_VALIDATION_FAILED"
	ErrCodeUnknownAnswer        ErrorCode = "UNKNOWN_ANSWER"
	ErrCodeUnknownNode          ErrorCode = "UNKNOWN_NODE"

	// Not-found errors.
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// Lifecycle conflicts - the session already ended.
	ErrCodeSessionEnded ErrorCode = "SESSION_ENDED"

	// Transport errors - store or webhook I/O.
	ErrCodeSessionCreateFailed   ErrorCode = "SESSION_CREATE_FAILED"
	ErrCodeSessionUpdateFailed   ErrorCode = "SESSION_UPDATE_FAILED"
	ErrCodeAnswerRecordFailed    ErrorCode = "ANSWER_RECORD_FAILED"
	ErrCodeWebhookDeliveryFailed ErrorCode = "WEBHOOK_DELIVERY_FAILED"
	ErrCodeAlertSendFailed       ErrorCode = "ALERT_SEND_FAILED"

	// Parse errors on stored data - recovered to a fallback, never propagated.
	ErrCodeTagsParseFailed ErrorCode = "TAGS_PARSE_FAILED"
)

// ErrSessionNotFound is the sentinel for lookups against an unknown session id.
// Callers must never silently create a session on this outcome.
var ErrSessionNotFound = errors.New("session not found")

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// FieldError carries a per-field validation message for inline rendering.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures from a lead-capture submit.
// No state mutation happens when one of these is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("ValidationError[%s]: %s", ErrCodeLeadValidationFailed, strings.Join(parts, "; "))
}

// FieldMessages returns the failures keyed by field name.
func (e *ValidationError) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// ==========================
// 2. Error Constructors
// ==========================

// NewGraphValidationError creates a fatal configuration error for a dangling
// node reference discovered at graph construction time.
func NewGraphValidationError(nodeID, target string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGraphValidationFailed,
		Message:   "Question graph references a node that does not exist",
		Details:   fmt.Sprintf("nodeId: %s, missing target: %s", nodeID, target),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a fatal configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownNodeError creates a non-retryable error for a node id lookup miss.
func NewUnknownNodeError(nodeID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownNode,
		Message:   "Question node not found in graph",
		Details:   fmt.Sprintf("nodeId: %s", nodeID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownAnswerError creates a non-retryable error for an answer id that
// does not belong to the given question.
func NewUnknownAnswerError(nodeID, answerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownAnswer,
		Message:   "Answer option not found on question",
		Details:   fmt.Sprintf("nodeId: %s, answerId: %s", nodeID, answerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionEndedError creates a conflict error for mutations against a
// session that already completed or was abandoned.
func NewSessionEndedError(sessionID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionEnded,
		Message:   "Session already ended",
		Details:   fmt.Sprintf("sessionId: %s, status: %s", sessionID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionCreateFailedError creates a retryable store error.
func NewSessionCreateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionCreateFailed,
		Message:   "Database error while creating session",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionUpdateFailedError creates a retryable store error.
func NewSessionUpdateFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionUpdateFailed,
		Message:   "Database error while updating session",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerRecordFailedError creates a retryable store error.
func NewAnswerRecordFailedError(sessionID, questionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerRecordFailed,
		Message:   "Database error while recording answer",
		Details:   fmt.Sprintf("sessionId: %s, questionId: %s, error: %s", sessionID, questionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookDeliveryFailedError creates a non-retryable delivery error.
// The dispatcher makes exactly one attempt; the caller decides what to record.
func NewWebhookDeliveryFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookDeliveryFailed,
		Message:   "Webhook delivery failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlertSendFailedError creates a non-retryable alert notification error.
func NewAlertSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlertSendFailed,
		Message:   "Lead alert delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError wraps field-level messages from a lead-capture submit.
func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsNotFound reports whether err is a session-not-found outcome.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrSessionNotFound) {
		return true
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == ErrCodeSessionNotFound
	}
	return false
}

// AsStandard unwraps err into target when it is a *StandardError.
func AsStandard(err error, target **StandardError) bool {
	return errors.As(err, target)
}

// IsValidation reports whether err carries field-level validation messages.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "GRAPH") || strings.Contains(codeStr, "CONFIG"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "UNKNOWN"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "ENDED"):
		return "CONFLICT"
	case strings.Contains(codeStr, "WEBHOOK") || strings.Contains(codeStr, "ALERT"):
		return "DELIVERY"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "ANSWER"):
		return "DATABASE"
	case strings.Contains(codeStr, "PARSE"):
		return "PARSE"
	default:
		return "OTHER"
	}
}
