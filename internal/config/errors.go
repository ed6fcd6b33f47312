package config

import "errors"

var (
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrConfigFileMissing     = errors.New("config file not found")
	ErrUnknownSourceKind     = errors.New("source kind must be \"file\" or \"kafka\"")
	ErrEmptySourcePath       = errors.New("source path cannot be empty for file source")
	ErrInvalidBufferSize     = errors.New("source bufferSize must be positive")
	ErrEmptyKafkaBrokers     = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic       = errors.New("kafka topic cannot be empty")
	ErrInvalidKafkaPartition = errors.New("kafka partition cannot be negative")
	ErrInvalidWindowSize     = errors.New("stats initialWindowSize must be positive")
	ErrUnknownOutputFormat   = errors.New("output format must be \"table\", \"json\" or \"yaml\"")
)
