package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// AuditEvent records one user-visible mutation and how the API answered it.
type AuditEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	BatchID   string    `json:"batch_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Subjects  []string  `json:"subjects"`
	Succeeded []string  `json:"succeeded,omitempty"`
	Failed    []string  `json:"failed,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

const (
	AuditBookingsCancelled = "bookings_cancelled"
	AuditRoleChanged       = "role_changed"
	AuditUserInvited       = "user_invited"
	AuditEventApproved     = "event_approved"
	AuditEventDenied       = "event_denied"
	AuditTicketSold        = "ticket_sold"
)

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload any, maxRetries int) error {
	var lastErr error
	for i := range maxRetries {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Printf("publish to %s attempt %d failed: %v", topic, i+1, err)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	return conn.Close()
}

// Publisher is the subset of Producer the audit trail needs.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	PublishWithRetry(ctx context.Context, topic, key string, payload any, maxRetries int) error
}

var _ Publisher = (*Producer)(nil)

// Audit publishes AuditEvents to one topic. Failures are logged and never
// reach the caller; the audit trail must not fail a user mutation.
type Audit struct {
	publisher Publisher
	topic     string
	retries   int
	now       func() time.Time
}

type AuditOption func(*Audit)

// WithRetries makes each record up to n publish attempts with backoff.
func WithRetries(n int) AuditOption {
	return func(a *Audit) {
		a.retries = n
	}
}

func NewAudit(publisher Publisher, topic string, opts ...AuditOption) *Audit {
	a := &Audit{publisher: publisher, topic: topic, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Audit) Record(ctx context.Context, event AuditEvent) {
	if a == nil || a.publisher == nil || a.topic == "" {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = a.now()
	}
	key := event.BatchID
	if key == "" {
		key = event.ID
	}
	var err error
	if a.retries > 1 {
		err = a.publisher.PublishWithRetry(ctx, a.topic, key, event, a.retries)
	} else {
		err = a.publisher.Publish(ctx, a.topic, key, event)
	}
	if err != nil {
		log.Printf("WARNING: failed to publish %s audit event %s: %v", event.Type, event.ID, err)
	}
}
