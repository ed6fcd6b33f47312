package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/diversitylens/internal/config"
	"github.com/sanspareilsmyn/diversitylens/internal/message"
)

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// messageFetcher is the part of *kafka.Reader the source depends on.
type messageFetcher interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaSource replays one partition of a Kafka topic as a token stream.
// Each Open reads from the first retained offset up to the high-water mark
// observed at open time, so every handle sees a finite, stable snapshot.
// Message values are separated by a single space.
type KafkaSource struct {
	cfg    config.KafkaConfig
	logger *zap.Logger

	offsets     func(ctx context.Context) (first, last int64, err error)
	openFetcher func(first int64) (messageFetcher, error)
}

// NewKafkaSource creates a KafkaSource for the configured topic partition.
func NewKafkaSource(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaSource, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.Partition < 0 {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.Int("partition", cfg.Partition),
		)
		return nil, ErrInvalidKafkaConfig
	}

	s := &KafkaSource{cfg: cfg, logger: logger}
	s.offsets = s.readOffsets
	s.openFetcher = s.newReader

	logger.Info("Kafka source created",
		zap.String("topic", cfg.Topic),
		zap.Int("partition", cfg.Partition),
		zap.Strings("brokers", cfg.Brokers),
		zap.String("field", cfg.Field),
	)
	return s, nil
}

// Open implements Source.
func (s *KafkaSource) Open(ctx context.Context) (io.ReadCloser, error) {
	first, last, err := s.offsets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrSourceOpenFailed, ErrKafkaOffsetsFailed, err)
	}

	s.logger.Debug("Resolved partition offsets",
		zap.Int64("first_offset", first),
		zap.Int64("last_offset", last),
	)

	if last <= first {
		return io.NopCloser(strings.NewReader("")), nil
	}

	fetcher, err := s.openFetcher(first)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpenFailed, err)
	}

	return &messageReader{
		ctx:     ctx,
		fetcher: fetcher,
		end:     last,
		field:   s.cfg.Field,
		logger:  s.logger,
	}, nil
}

// readOffsets asks the partition leader for its retained offset range.
func (s *KafkaSource) readOffsets(ctx context.Context) (int64, int64, error) {
	var lastErr error
	for _, broker := range s.cfg.Brokers {
		conn, err := kafka.DialLeader(ctx, "tcp", broker, s.cfg.Topic, s.cfg.Partition)
		if err != nil {
			s.logger.Warn("Failed to dial partition leader", zap.String("broker", broker), zap.Error(err))
			lastErr = err
			continue
		}
		first, last, err := conn.ReadOffsets()
		if closeErr := conn.Close(); closeErr != nil {
			s.logger.Warn("Failed to close leader connection", zap.Error(closeErr))
		}
		return first, last, err
	}
	return 0, 0, lastErr
}

func (s *KafkaSource) newReader(first int64) (messageFetcher, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     s.cfg.Brokers,
		Topic:       s.cfg.Topic,
		Partition:   s.cfg.Partition,
		MinBytes:    1,
		MaxBytes:    10e6,
		Logger:      kafkaZapLogger{s.logger.Named("kafka-reader").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger: kafkaZapErrorLogger{s.logger.Named("kafka-reader-error").WithOptions(zap.AddCallerSkip(1))},
	})
	if err := r.SetOffset(first); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// messageReader flattens a bounded run of Kafka messages into one byte stream.
type messageReader struct {
	ctx     context.Context
	fetcher messageFetcher
	end     int64
	field   string
	logger  *zap.Logger

	pending []byte
	started bool
	done    bool
}

func (r *messageReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// next loads the following message into pending, prefixed with a space
// when it is not the first one.
func (r *messageReader) next() error {
	m, err := r.fetcher.ReadMessage(r.ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.done = true
			return nil
		}
		return fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
	}
	if m.Offset+1 >= r.end {
		r.done = true
	}

	value := m.Value
	if r.field != "" {
		text, err := message.ExtractText(m.Value, r.field)
		if err != nil {
			r.logger.Warn("Skipping message without text field",
				zap.Int64("offset", m.Offset),
				zap.String("field", r.field),
				zap.Error(err),
			)
			return nil
		}
		value = []byte(text)
	}
	if len(value) == 0 {
		return nil
	}

	if r.started {
		r.pending = append(append(r.pending[:0], ' '), value...)
	} else {
		r.pending = append(r.pending[:0], value...)
		r.started = true
	}
	return nil
}

func (r *messageReader) Close() error {
	return r.fetcher.Close()
}
