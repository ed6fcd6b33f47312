package source

import "errors"

var (
	ErrSourceOpenFailed   = errors.New("failed to open token source")
	ErrEmptyFilePath      = errors.New("file source path cannot be empty")
	ErrInvalidKafkaConfig = errors.New("invalid Kafka configuration provided")
	ErrKafkaOffsetsFailed = errors.New("failed to read Kafka partition offsets")
	ErrKafkaFetchFailed   = errors.New("failed to fetch message from Kafka")
)
