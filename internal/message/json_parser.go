package message

import (
	"encoding/json"
	"fmt"
)

// ParseDynamicJSON parses a JSON object into a DynamicMessage map.
// It returns ErrJSONUnmarshalFailed (wrapping the original error) if unmarshalling fails.
func ParseDynamicJSON(data []byte) (DynamicMessage, error) {
	var msg DynamicMessage

	err := json.Unmarshal(data, &msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	if msg == nil {
		return nil, ErrNotAnObject
	}
	return msg, nil
}

// ExtractText returns the string stored under field in a JSON-encoded object.
func ExtractText(data []byte, field string) (string, error) {
	msg, err := ParseDynamicJSON(data)
	if err != nil {
		return "", err
	}
	text, ok := msg.GetString(field)
	if !ok {
		return "", fmt.Errorf("%w: %q is %s", ErrFieldNotText, field, msg.GetFieldSnippet(field, 32))
	}
	return text, nil
}
