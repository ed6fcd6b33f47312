package stats

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/diversitylens/internal/source"
	"github.com/sanspareilsmyn/diversitylens/internal/tokenizer"
)

// Analyzer computes result rows for a token source.
type Analyzer interface {
	Build(ctx context.Context, src source.Source) ([]Row, error)
}

// Builder drives tokens from a source through a Cascade.
type Builder struct {
	initialWindowSize int
	bufferSize        int
	logger            *zap.Logger
	observer          Observer
}

// Option configures a Builder.
type Option func(*Builder)

// WithBufferSize sets the initial tokenizer lookahead in bytes.
func WithBufferSize(size int) Option {
	return func(b *Builder) {
		b.bufferSize = size
	}
}

// WithLogger sets the logger used for progress and scale events.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver registers an Observer for token and scale events.
func WithObserver(o Observer) Option {
	return func(b *Builder) {
		if o != nil {
			b.observer = o
		}
	}
}

// NewBuilder creates a Builder whose smallest window holds initialWindowSize tokens.
func NewBuilder(initialWindowSize int, opts ...Option) (*Builder, error) {
	if initialWindowSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, initialWindowSize)
	}

	b := &Builder{
		initialWindowSize: initialWindowSize,
		bufferSize:        tokenizer.DefaultBufferSize,
		logger:            zap.NewNop(),
		observer:          nopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.logger.Debug("Builder initialized",
		zap.Int("initial_window_size", b.initialWindowSize),
		zap.Int("buffer_size", b.bufferSize),
	)
	return b, nil
}

// Build reads src once and returns one Row per observed window size,
// ascending. The opened handle is closed on every return path. An empty
// stream yields no rows and no error; read failures abort the pass.
func (b *Builder) Build(ctx context.Context, src source.Source) ([]Row, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			b.logger.Warn("Failed to close token source", zap.Error(closeErr))
		}
	}()

	cascade, err := NewCascade(b.initialWindowSize)
	if err != nil {
		return nil, err
	}

	tok := tokenizer.New(source.Decode(rc), b.bufferSize)
	for tok.Scan() {
		token := tok.Token()
		b.observer.ObserveToken(token)
		if cascade.Tokens() == 0 {
			b.observer.ObserveScale(b.initialWindowSize)
		}

		if size, grew := cascade.Add(token); grew {
			b.logger.Debug("New window scale",
				zap.Int("window_size", size),
				zap.Int("tokens_seen", cascade.Tokens()),
			)
			b.observer.ObserveScale(size)
		}
	}
	if err := tok.Err(); err != nil {
		b.logger.Error("Token stream read failed",
			zap.Int("tokens_seen", cascade.Tokens()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	rows := cascade.Rows()
	b.logger.Info("Statistics built",
		zap.Int("tokens", cascade.Tokens()),
		zap.Int("scales", len(rows)),
	)
	return rows, nil
}
