package webhook

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema is the CRM contract the payload must satisfy before a
// delivery attempt is made. Catching a malformed payload here is cheaper
// than debugging silent field-mapping failures on the CRM side.
var payloadSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"sessionId", "sessionStatus", "createdAt",
		"qualificationScore", "tags", "answers",
	},
	"properties": map[string]interface{}{
		"sessionId":     map[string]interface{}{"type": "string", "minLength": 1},
		"sessionStatus": map[string]interface{}{"type": "string", "enum": []interface{}{"active", "completed", "abandoned"}},
		"createdAt":     map[string]interface{}{"type": "string", "format": "date-time"},
		"completedAt":   map[string]interface{}{"type": []interface{}{"string", "null"}},
		"firstName":     map[string]interface{}{"type": []interface{}{"string", "null"}},
		"lastName":      map[string]interface{}{"type": []interface{}{"string", "null"}},
		"email":         map[string]interface{}{"type": []interface{}{"string", "null"}},
		"phone":         map[string]interface{}{"type": []interface{}{"string", "null"}},
		"qualificationScore": map[string]interface{}{
			"type": "integer",
		},
		"qualificationTier": map[string]interface{}{
			"type": []interface{}{"string", "null"},
			"enum": []interface{}{"hot", "warm", "cold", "nurture", nil},
		},
		"tags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"answers": map[string]interface{}{"type": "object"},
	},
}

// ValidatePayload checks the assembled payload against the CRM contract.
func ValidatePayload(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(payloadSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("payload schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("payload does not satisfy CRM contract: %s", strings.Join(msgs, "; "))
	}
	return nil
}
