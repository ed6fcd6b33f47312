package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	SourceKindFile  = "file"
	SourceKindKafka = "kafka"

	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

const (
	defaultSourceKind        = SourceKindFile
	defaultBufferSize        = 0x100
	defaultInitialWindowSize = 2
	defaultKafkaPartition    = 0
	defaultOutputFormat      = OutputFormatTable
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultLogFileEnabled    = false
	defaultLogDirectory      = "log"
	defaultLogFilename       = "diversitylens.log"
	defaultLogMaxSizeMB      = 100
	defaultLogMaxBackups     = 3
	defaultLogMaxAgeDays     = 7
	defaultLogCompress       = false

	// Environment variable prefix
	envPrefix = "DIVERSITYLENS"
)

type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

type SourceConfig struct {
	Kind       string `mapstructure:"kind"` // "file" or "kafka"
	Path       string `mapstructure:"path"`
	BufferSize int    `mapstructure:"bufferSize"` // Initial tokenizer lookahead in bytes
}

type KafkaConfig struct {
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	Partition int      `mapstructure:"partition"`
	Field     string   `mapstructure:"field"` // JSON field holding the text; empty means raw values
}

type StatsConfig struct {
	InitialWindowSize int      `mapstructure:"initialWindowSize"`
	MinAverageUnique  *float64 `mapstructure:"minAverageUnique"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"` // "table", "json" or "yaml"
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfilePath"` // Prometheus textfile collector output, empty disables
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
// An empty configPath skips the file and relies on defaults and environment.
// Overrides (typically command-line flags) take precedence over every other
// source and are keyed by their dotted config path, e.g. "source.path".
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	setDefaults(v)

	if configPath != "" {
		if err := readConfigFile(v); err != nil {
			return nil, err
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
// Every key is registered here so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", defaultSourceKind)
	v.SetDefault("source.path", "")
	v.SetDefault("source.bufferSize", defaultBufferSize)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "")
	v.SetDefault("kafka.partition", defaultKafkaPartition)
	v.SetDefault("kafka.field", "")
	v.SetDefault("stats.initialWindowSize", defaultInitialWindowSize)
	v.SetDefault("output.format", defaultOutputFormat)
	v.SetDefault("metrics.textfilePath", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

// Validate checks the loaded configuration for values the analyzer cannot run with.
func Validate(cfg *Config) error {
	switch cfg.Source.Kind {
	case SourceKindFile:
		if cfg.Source.Path == "" {
			return ErrEmptySourcePath
		}
	case SourceKindKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return ErrEmptyKafkaBrokers
		}
		if cfg.Kafka.Topic == "" {
			return ErrEmptyKafkaTopic
		}
		if cfg.Kafka.Partition < 0 {
			return ErrInvalidKafkaPartition
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSourceKind, cfg.Source.Kind)
	}
	if cfg.Source.BufferSize <= 0 {
		return ErrInvalidBufferSize
	}
	if cfg.Stats.InitialWindowSize <= 0 {
		return ErrInvalidWindowSize
	}
	switch cfg.Output.Format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, cfg.Output.Format)
	}
	return nil
}
