package message

import "errors"

var (
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal JSON message")
	ErrNotAnObject         = errors.New("JSON message is null, expected an object")
	ErrFieldNotText        = errors.New("message field does not hold text")
)
