// Package kafka publishes habitat run summaries to a Kafka topic so
// downstream consumers (dashboards, scenario comparisons across batch fleets)
// can pick them up. Publishing is optional and feature-flagged via config.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/config"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/domain"
)

// Publisher produces run summaries to a Kafka topic.
// It implements pipeline.SummaryPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured summary topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummary serializes and publishes one run summary.
func (p *Publisher) PublishSummary(ctx context.Context, s domain.HabitatSummary) error {
	msg, err := summaryMessage(s)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish summary to %s: %w", p.writer.Topic, err)
	}
	p.logger.Info("run summary published", "topic", p.writer.Topic,
		"usable_pixels", s.UsablePixelCount)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// summaryMessage marshals a HabitatSummary into a Kafka message keyed by its
// generation timestamp.
func summaryMessage(s domain.HabitatSummary) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.GeneratedAt.UTC().Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "threshold", Value: []byte(strconv.FormatFloat(s.Threshold, 'f', -1, 64))},
			{Key: "generated_at", Value: []byte(s.GeneratedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
