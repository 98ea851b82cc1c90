package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

// Config holds Kafka configuration
type Config struct {
	Brokers []string
	Topic   string
}

// ParseBrokers trims a broker list and drops empty entries
func ParseBrokers(brokers []string) []string {
	out := make([]string, 0, len(brokers))
	for _, b := range brokers {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes record lifecycle events to a Kafka topic
type Producer struct {
	writer messageWriter
	logger ectologger.Logger
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg Config, logger ectologger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(ParseBrokers(cfg.Brokers)...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		// A first publish to a missing topic fails with "Unknown Topic Or Partition" otherwise.
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

func (p *Producer) GetName() string {
	return "events"
}

func (p *Producer) DependsOn() []string {
	return []string{"tracing"}
}

// Start is a no-op: the writer dials brokers on first publish.
func (p *Producer) Start(ctx context.Context) error {
	p.logger.Infof("Kafka producer ready for topic %s", p.topic)
	return nil
}

func (p *Producer) Stop(ctx context.Context) error {
	return p.writer.Close()
}

// PublishEvent writes evt keyed by its resource id so events for one record stay ordered
func (p *Producer) PublishEvent(ctx context.Context, evt events.Event) error {
	ctx, span := tracing.StartSpan(ctx, "Kafka.PublishEvent")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", p.topic),
		attribute.String("messaging.operation", "publish"),
		attribute.String("event.type", evt.Type),
		attribute.String("event.resource_id", evt.ResourceID),
	)

	msg, err := buildMessage(ctx, evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal event")
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish event")
		p.logger.WithContext(ctx).WithError(err).Errorf("Failed to publish to Kafka topic %s", p.topic)
		return err
	}

	span.SetStatus(codes.Ok, "event published")
	return nil
}

func buildMessage(ctx context.Context, evt events.Event) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(evt.ID)},
		{Key: "type", Value: []byte(evt.Type)},
		{Key: "resource", Value: []byte(evt.Resource)},
	}
	traceHeaders := tracing.PropagationHeaders(ctx)
	for _, key := range []string{tracing.HeaderTraceParent, tracing.HeaderTraceState} {
		if value := traceHeaders[key]; value != "" {
			headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
		}
	}

	return kafka.Message{
		Key:     []byte(evt.ResourceID),
		Value:   data,
		Headers: headers,
		Time:    evt.Timestamp,
	}, nil
}
