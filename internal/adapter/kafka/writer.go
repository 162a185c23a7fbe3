// Package kafka publishes computed benchmark metrics to a sink topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/damage-rate-service/internal/config"
	"github.com/couchcryptid/damage-rate-service/internal/domain"
)

// Writer produces metric rows to the sink topic.
// It implements service.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishMetrics serializes every row of the set and publishes them in a
// single WriteMessages call.
func (w *Writer) PublishMetrics(ctx context.Context, set *domain.MetricSet) error {
	rows := set.All()
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i, m := range rows {
		msg, err := serializeToMessage(m, set.GeneratedAt())
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a metric row into a Kafka message keyed
// STATE-YEAR, so a compacted topic retains the latest benchmark per row.
func serializeToMessage(m *domain.StateYearMetric, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize metric: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%s-%d", m.State, m.Year)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "state", Value: []byte(m.State)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
