package engine

import (
	"regexp"
	"strings"

	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStrip   = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "", "+", "", "\t", "")
)

// validateLeadFields checks the submitted values against the fields the node
// requests and returns only the requested fields, trimmed. Fields the node
// did not ask for are dropped silently.
func validateLeadFields(requested []string, fields models.LeadFields) (*models.LeadFields, error) {
	captured := &models.LeadFields{}
	var fieldErrs []errors.FieldError

	for _, field := range requested {
		switch field {
		case graph.FieldFirstName:
			v := strings.TrimSpace(fields.FirstName)
			if v == "" {
				fieldErrs = append(fieldErrs, errors.FieldError{Field: field, Message: "First name is required"})
				continue
			}
			captured.FirstName = v
		case graph.FieldLastName:
			v := strings.TrimSpace(fields.LastName)
			if v == "" {
				fieldErrs = append(fieldErrs, errors.FieldError{Field: field, Message: "Last name is required"})
				continue
			}
			captured.LastName = v
		case graph.FieldEmail:
			v := strings.TrimSpace(fields.Email)
			if v == "" {
				fieldErrs = append(fieldErrs, errors.FieldError{Field: field, Message: "Email is required"})
				continue
			}
			if !emailPattern.MatchString(v) {
				fieldErrs = append(fieldErrs, errors.FieldError{Field: field, Message: "Please enter a valid email address"})
				continue
			}
			captured.Email = v
		case graph.FieldPhone:
			v := strings.TrimSpace(fields.Phone)
			if v == "" {
				fieldErrs = append(fieldErrs, errors.FieldError{Field: field, Message: "Phone number is required"})
				continue
			}
			if !validPhone(v) {
				fieldErrs = append(fieldErrs, errors.FieldError{Field: field, Message: "Please enter a valid phone number"})
				continue
			}
			captured.Phone = v
		}
	}

	if len(fieldErrs) > 0 {
		return nil, errors.NewValidationError(fieldErrs)
	}
	return captured, nil
}

// validPhone accepts any value with at least ten digits once formatting
// characters are stripped.
func validPhone(v string) bool {
	stripped := phoneStrip.Replace(v)
	if len(stripped) < 10 {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
