package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	broker    = flag.String("broker", "localhost:9092", "Kafka broker address")
	topic     = flag.String("topic", "corpus", "Topic to publish text to")
	inputFile = flag.String("input", "", "Publish each line of this file as one message; generate text when empty")
	count     = flag.Int("count", 100, "Number of generated messages when no input file is given")
	field     = flag.String("field", "", "Wrap each message in a JSON object under this field")
)

// Sample vocabulary with a skewed distribution so that distinct-token
// averages differ across window sizes.
var vocabulary = []string{
	"the", "the", "the", "of", "of", "and", "and", "stream", "window",
	"token", "cascade", "buffer", "kafka", "partition", "offset", "scale",
}

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(*broker),
		Topic:                  *topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	defer func() {
		if err := writer.Close(); err != nil {
			sugar.Errorw("Error closing kafka writer", zap.Error(err))
		}
	}()
	sugar.Infow("Starting corpus producer", "topic", *topic, "broker", *broker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lines, err := corpus(*inputFile, *count)
	if err != nil {
		sugar.Errorw("Failed to prepare corpus", zap.Error(err))
		return
	}

	published := 0
	for _, line := range lines {
		value, err := encode(line, *field)
		if err != nil {
			sugar.Warnw("Error encoding message", zap.Error(err))
			continue
		}

		if err := writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
			if ctx.Err() != nil {
				sugar.Info("Context cancelled, stopping producer.")
				break
			}
			sugar.Errorw("Error writing message", zap.Error(err))
			continue
		}
		published++
	}

	sugar.Infow("Producer finished", "published", published, "prepared", len(lines))
}

// corpus returns the message bodies to publish: the non-empty lines of
// path, or n generated sentences.
func corpus(path string, n int) ([]string, error) {
	if path == "" {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		lines := make([]string, n)
		for i := range lines {
			lines[i] = generateSentence(rng)
		}
		return lines, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func generateSentence(rng *rand.Rand) string {
	words := make([]string, 4+rng.Intn(12))
	for i := range words {
		words[i] = vocabulary[rng.Intn(len(vocabulary))]
	}
	return strings.Join(words, " ")
}

func encode(line, field string) ([]byte, error) {
	if field == "" {
		return []byte(line), nil
	}
	return json.Marshal(map[string]string{field: line})
}
