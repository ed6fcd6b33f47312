package report

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrWriteFailed   = errors.New("failed to write report")
)
