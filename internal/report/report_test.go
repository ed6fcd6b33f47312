package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/sanspareilsmyn/diversitylens/internal/config"
	"github.com/sanspareilsmyn/diversitylens/internal/stats"
)

var scenarioRows = []stats.Row{
	{WindowSize: 2, AverageUniqueTokensPerWindow: 1.75, WindowCount: 4},
	{WindowSize: 4, AverageUniqueTokensPerWindow: 2.5, WindowCount: 2},
	{WindowSize: 8, AverageUniqueTokensPerWindow: 3.0, WindowCount: 1},
}

func TestMetrics_Observer(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	var _ stats.Observer = m
	m.ObserveToken("abc")
	m.ObserveToken("de")
	m.ObserveScale(2)

	require.Equal(t, float64(2), testutil.ToFloat64(m.Tokens))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Scales))
	require.Equal(t, 1, testutil.CollectAndCount(m.TokenLength))
}

func TestMetrics_RecordRow(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	for _, row := range scenarioRows {
		m.RecordRow(row)
	}

	require.Equal(t, float64(4), testutil.ToFloat64(m.WindowCount.WithLabelValues("2")))
	require.Equal(t, 2.5, testutil.ToFloat64(m.AverageUnique.WithLabelValues("4")))
	require.Equal(t, 3, testutil.CollectAndCount(m.AverageUnique))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordRow(scenarioRows[0])

	path := filepath.Join(t.TempDir(), "diversitylens.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `diversitylens_average_unique_tokens{window_size="2"} 1.75`)
}

func TestNewReporter_UnknownFormat(t *testing.T) {
	_, err := NewReporter("xml", nil, &bytes.Buffer{}, nil, zap.NewNop())
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReporter_Table(t *testing.T) {
	var out bytes.Buffer
	r, err := NewReporter(config.OutputFormatTable, nil, &out, nil, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, r.Report(scenarioRows))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"WINDOW", "SIZE", "AVG", "UNIQUE", "WINDOWS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2", "1.7500", "4"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"8", "3.0000", "1"}, strings.Fields(lines[3]))
}

func TestReporter_JSON(t *testing.T) {
	var out bytes.Buffer
	r, err := NewReporter(config.OutputFormatJSON, nil, &out, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Report(scenarioRows))

	var decoded []stats.Row
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, scenarioRows, decoded)
	assert.Contains(t, out.String(), `"averageUniqueTokensPerWindow": 1.75`)
}

func TestReporter_YAML(t *testing.T) {
	var out bytes.Buffer
	r, err := NewReporter(config.OutputFormatYAML, nil, &out, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Report(scenarioRows))

	var decoded []stats.Row
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, scenarioRows, decoded)
}

func TestReporter_EmptyRows(t *testing.T) {
	var out bytes.Buffer
	r, err := NewReporter(config.OutputFormatJSON, nil, &out, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Report(nil))
	assert.Equal(t, "[]\n", out.String())
}

func TestReporter_Threshold(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMetrics(prometheus.NewRegistry())
	minimum := 2.0

	r, err := NewReporter(config.OutputFormatTable, &minimum, &bytes.Buffer{}, m, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, r.Report(scenarioRows))

	violations := logs.FilterMessage("Average unique tokens violation (Min)").All()
	require.Len(t, violations, 1)
	assert.Equal(t, int64(2), violations[0].ContextMap()["window_size"])

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ThresholdViolations.WithLabelValues("2")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ThresholdViolations.WithLabelValues("4")))
	assert.Equal(t, 3, logs.FilterMessage("Window stats processed").Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestReporter_WriteFailure(t *testing.T) {
	r, err := NewReporter(config.OutputFormatJSON, nil, failingWriter{}, nil, zap.NewNop())
	require.NoError(t, err)
	require.ErrorIs(t, r.Report(scenarioRows), ErrWriteFailed)
}
