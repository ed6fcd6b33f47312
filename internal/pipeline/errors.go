package pipeline

import "errors"

var (
	ErrSourceCreationFailed   = errors.New("failed to create source")
	ErrBuilderCreationFailed  = errors.New("failed to create statistics builder")
	ErrReporterCreationFailed = errors.New("failed to create reporter")
	ErrBuildFailed            = errors.New("statistics build failed")
	ErrReportFailed           = errors.New("report stage failed")
	ErrMetricsExportFailed    = errors.New("failed to export metrics")
)
