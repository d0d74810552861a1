package models

import "encoding/json"

// ParseTags decodes a serialized tag set. Malformed input degrades to an
// empty set rather than failing the caller; the stored raw value stays
// untouched.
func ParseTags(serialized string) []string {
	if serialized == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(serialized), &tags); err != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

// EncodeTags serializes a tag set for storage. A nil set encodes as an
// empty array.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
