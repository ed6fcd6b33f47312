package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sanspareilsmyn/diversitylens/internal/config"
	"github.com/sanspareilsmyn/diversitylens/internal/stats"
)

// Reporter receives result rows, checks them against the configured
// threshold, updates metrics and writes them out.
type Reporter struct {
	format           string
	out              io.Writer
	minAverageUnique *float64
	metrics          *Metrics
	logger           *zap.Logger
}

// NewReporter creates a new Reporter instance. metrics may be nil.
func NewReporter(format string, minAverageUnique *float64, out io.Writer, metrics *Metrics, logger *zap.Logger) (*Reporter, error) {
	switch format {
	case config.OutputFormatTable, config.OutputFormatJSON, config.OutputFormatYAML:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	logger.Debug("Reporter initialized", zap.String("format", format))

	return &Reporter{
		format:           format,
		out:              out,
		minAverageUnique: minAverageUnique,
		metrics:          metrics,
		logger:           logger,
	}, nil
}

// Report processes rows in order and writes them in the configured format.
func (r *Reporter) Report(rows []stats.Row) error {
	sugar := r.logger.Sugar()

	for _, row := range rows {
		if r.metrics != nil {
			r.metrics.RecordRow(row)
		}
		r.checkMinAverageUnique(sugar, row)

		sugar.Infow("Window stats processed",
			zap.Int("window_size", row.WindowSize),
			zap.Float64("average_unique", row.AverageUniqueTokensPerWindow),
			zap.Int("window_count", row.WindowCount),
		)
	}

	if err := r.write(rows); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Helper function to check the minimum average distinct tokens threshold
func (r *Reporter) checkMinAverageUnique(sugar *zap.SugaredLogger, row stats.Row) {
	if r.minAverageUnique == nil {
		return
	}
	if row.AverageUniqueTokensPerWindow < *r.minAverageUnique {
		sugar.Warnw("Average unique tokens violation (Min)",
			zap.Int("window_size", row.WindowSize),
			zap.Float64("actual", row.AverageUniqueTokensPerWindow),
			zap.Float64("threshold", *r.minAverageUnique),
			zap.String("comparison", "<"),
		)
		if r.metrics != nil {
			r.metrics.ThresholdViolations.WithLabelValues(strconv.Itoa(row.WindowSize)).Inc()
		}
	}
}

func (r *Reporter) write(rows []stats.Row) error {
	if rows == nil {
		rows = []stats.Row{}
	}

	switch r.format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()

	default:
		tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "WINDOW SIZE\tAVG UNIQUE\tWINDOWS")
		for _, row := range rows {
			fmt.Fprintf(tw, "%d\t%.4f\t%d\n", row.WindowSize, row.AverageUniqueTokensPerWindow, row.WindowCount)
		}
		return tw.Flush()
	}
}
