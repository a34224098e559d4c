// Package events publishes domain events to Kafka. Publishing is best effort: a missing or
// unreachable broker never fails the operation that raised the event.
package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"coursehub/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	EnrollmentCreated       = "enrollment.created"
	EnrollmentStatusChanged = "enrollment.status_changed"
	EnrollmentCompleted     = "enrollment.completed"
	PaymentCompleted        = "payment.completed"
	PaymentFailed           = "payment.failed"
	BadgeAwarded            = "badge.awarded"
	BadgeRemoved            = "badge.removed"
)

type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func New(eventType string, data map[string]interface{}) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, key string, e Event) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

type KafkaOptions struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
}

// NewKafkaPublisher returns a publisher writing to opts.Topic. SASL/TLS is used when a
// username is configured.
func NewKafkaPublisher(opts KafkaOptions, log *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(opts.Brokers...),
		Topic:        opts.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}
	if opts.Username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: opts.Username, Password: opts.Password},
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, e Event) error {
	if p == nil || p.writer == nil {
		return nil
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  e.OccurredAt,
	})
	if err != nil {
		p.log.Warn("kafka publish failed", "type", e.Type, "key", key, "error", err)
	}
	return err
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Noop drops every event. Used when no broker is configured and in tests.
type Noop struct{}

func (Noop) Publish(context.Context, string, Event) error { return nil }
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, _ string, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
