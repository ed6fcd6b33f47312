package message

import "fmt"

// DynamicMessage represents a message with arbitrary key-value pairs,
// typically parsed from JSON.
type DynamicMessage map[string]interface{}

// GetString retrieves the text stored under key.
// Missing keys, null values and non-string values report false.
func (dm DynamicMessage) GetString(key string) (string, bool) {
	val, exists := dm[key]
	if !exists || val == nil {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// HasNonNull checks if a key exists and its value is not explicitly null.
func (dm DynamicMessage) HasNonNull(key string) bool {
	val, exists := dm[key]
	return exists && val != nil
}

// GetFieldSnippet returns a string snippet of a field's value, useful for logging.
// It handles missing keys and truncates long values.
func (dm DynamicMessage) GetFieldSnippet(fieldName string, maxLength int) string {
	value, exists := dm[fieldName]
	if !exists {
		return "<missing>"
	}

	strValue := fmt.Sprintf("%v", value)

	if maxLength <= 0 {
		return "..."
	}

	if len(strValue) > maxLength {
		return strValue[:maxLength] + "..."
	}

	return strValue
}
