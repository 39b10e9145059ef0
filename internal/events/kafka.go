package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-billing/internal/config"
	"inventory-billing/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer     MessageWriter
	propagator propagation.TextMapPropagator
	logger     zerolog.Logger
}

// NewKafkaPublisher creates a Publisher writing to the configured topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger zerolog.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka event publisher configured")

	return NewKafkaPublisherWithWriter(writer, logger)
}

// NewKafkaPublisherWithWriter creates a Publisher on top of an existing writer.
// Trace context is injected with the global propagator.
func NewKafkaPublisherWithWriter(writer MessageWriter, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer:     writer,
		propagator: otel.GetTextMapPropagator(),
		logger:     logger.With().Str("component", "events").Logger(),
	}
}

func (p *kafkaPublisher) PublishBillCreated(ctx context.Context, bill *model.Bill) error {
	payload, err := json.Marshal(NewBillCreatedEvent(bill))
	if err != nil {
		return fmt.Errorf("failed to encode bill.created event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	p.propagator.Inject(ctx, carrier)

	headers := []kafka.Header{{Key: "event-type", Value: []byte(BillCreatedType)}}
	for _, key := range carrier.Keys() {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(carrier.Get(key))})
	}

	msg := kafka.Message{
		Key:     []byte(bill.ID.String()),
		Value:   payload,
		Headers: headers,
		Time:    bill.CreatedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("bill_id", bill.ID.String()).Msg("failed to publish bill.created")
		return fmt.Errorf("failed to publish bill.created: %w", err)
	}

	p.logger.Debug().Str("bill_id", bill.ID.String()).Msg("published bill.created")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
