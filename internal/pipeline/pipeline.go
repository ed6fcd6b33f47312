package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/diversitylens/internal/config"
	"github.com/sanspareilsmyn/diversitylens/internal/report"
	"github.com/sanspareilsmyn/diversitylens/internal/source"
	"github.com/sanspareilsmyn/diversitylens/internal/stats"
)

// Pipeline wires the stages: source, statistics builder, reporter.
// A run is a single synchronous pass over the source.
type Pipeline struct {
	cfg      *config.Config
	source   source.Source
	analyzer stats.Analyzer
	reporter *report.Reporter
	registry *prometheus.Registry
	logger   *zap.Logger
}

// New creates and wires up a new pipeline writing its report to out.
func New(cfg *config.Config, out io.Writer, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")
	initLogger.Debug("Creating pipeline components...")

	src, err := newSource(cfg, logger.Named("source"))
	if err != nil {
		initLogger.Error("Failed to create source", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSourceCreationFailed, err)
	}
	initLogger.Debug("Source created", zap.String("kind", cfg.Source.Kind))

	registry := prometheus.NewRegistry()
	metrics := report.NewMetrics(registry)

	builder, err := stats.NewBuilder(cfg.Stats.InitialWindowSize,
		stats.WithBufferSize(cfg.Source.BufferSize),
		stats.WithLogger(logger.Named("builder")),
		stats.WithObserver(metrics),
	)
	if err != nil {
		initLogger.Error("Failed to create builder", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrBuilderCreationFailed, err)
	}
	initLogger.Debug("Builder created")

	reporter, err := report.NewReporter(cfg.Output.Format, cfg.Stats.MinAverageUnique, out, metrics, logger.Named("reporter"))
	if err != nil {
		initLogger.Error("Failed to create reporter", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrReporterCreationFailed, err)
	}
	initLogger.Debug("Reporter created")

	p := &Pipeline{
		cfg:      cfg,
		source:   src,
		analyzer: builder,
		reporter: reporter,
		registry: registry,
		logger:   logger.Named("pipeline"),
	}

	initLogger.Info("Pipeline instance created successfully")
	return p, nil
}

func newSource(cfg *config.Config, logger *zap.Logger) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceKindFile:
		src, err := source.NewFileSource(cfg.Source.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug("File source created", zap.String("path", src.Path()))
		return src, nil
	case config.SourceKindKafka:
		src, err := source.NewKafkaSource(cfg.Kafka, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSourceKind, cfg.Source.Kind)
	}
}

// Run reads the source once, reports the rows and exports metrics when a
// textfile path is configured.
func (p *Pipeline) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	sugar.Infow("Pipeline Run: Building statistics...",
		"source_kind", p.cfg.Source.Kind,
		"initial_window_size", p.cfg.Stats.InitialWindowSize,
	)

	rows, err := p.analyzer.Build(ctx, p.source)
	if err != nil {
		sugar.Errorw("Pipeline Run: Building statistics failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if err := p.reporter.Report(rows); err != nil {
		sugar.Errorw("Pipeline Run: Reporting failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrReportFailed, err)
	}

	if path := p.cfg.Metrics.TextfilePath; path != "" {
		if err := report.WriteTextfile(path, p.registry); err != nil {
			sugar.Errorw("Pipeline Run: Writing metrics textfile failed", "path", path, zap.Error(err))
			return fmt.Errorf("%w: %w", ErrMetricsExportFailed, err)
		}
		sugar.Debugw("Metrics textfile written", "path", path)
	}

	sugar.Infow("Pipeline Run: Finished", "scales", len(rows))
	return nil
}

// Registry exposes the run's metrics registry.
func (p *Pipeline) Registry() *prometheus.Registry {
	return p.registry
}
