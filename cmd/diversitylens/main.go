package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/diversitylens/internal/config"
	"github.com/sanspareilsmyn/diversitylens/internal/logging"
	"github.com/sanspareilsmyn/diversitylens/internal/pipeline"
)

var (
	configFile = flag.String("config", "", "Path to the configuration file (optional)")
	inputFile  = flag.String("input", "", "Text file to analyze; selects the file source")
	windowSize = flag.Int("window", 0, "Initial window size in tokens (overrides config)")
	format     = flag.String("format", "", "Output format: table, json or yaml (overrides config)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	overrides := map[string]interface{}{}
	if *inputFile != "" {
		overrides["source.kind"] = config.SourceKindFile
		overrides["source.path"] = *inputFile
	} else if flag.NArg() > 0 {
		overrides["source.kind"] = config.SourceKindFile
		overrides["source.path"] = flag.Arg(0)
	}
	if *windowSize != 0 {
		overrides["stats.initialWindowSize"] = *windowSize
	}
	if *format != "" {
		overrides["output.format"] = *format
	}

	cfg, err := config.Load(*configFile, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Debugw("Logger initialized",
		"level", cfg.Log.Level,
		"format", cfg.Log.Format,
	)
	sugar.Debugw("Configuration loaded successfully", "path", *configFile)

	pipe, err := pipeline.New(cfg, os.Stdout, logger)
	if err != nil {
		sugar.Errorw("Failed to initialize pipeline", zap.Error(err))
		return 1
	}

	// Interrupts cancel blocking source reads (Kafka); file reads finish on their own.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := pipe.Run(ctx)

	finalLogLevel := zapcore.InfoLevel
	outcome := "completed"
	finalErrorField := zap.Skip()
	exitCode := 0

	switch {
	case runErr == nil:
		finalLogLevel = zapcore.DebugLevel
	case errors.Is(runErr, context.Canceled):
		outcome = "cancelled"
		exitCode = 130
	default:
		outcome = "failed"
		finalLogLevel = zapcore.ErrorLevel
		finalErrorField = zap.Error(runErr)
		exitCode = 1
	}

	logger.Log(finalLogLevel, fmt.Sprintf("DiversityLens %s.", outcome),
		zap.String("outcome", outcome),
		finalErrorField,
	)
	return exitCode
}
