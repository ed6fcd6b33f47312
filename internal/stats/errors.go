package stats

import "errors"

var (
	ErrInvalidWindowSize = errors.New("initial window size must be positive")
	ErrReadFailed        = errors.New("failed to read token stream")
)
