package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, topic, key string, payload any, maxRetries int) error {
	args := m.Called(ctx, topic, key, payload, maxRetries)
	return args.Error(0)
}

func TestAudit_RecordFillsDefaults(t *testing.T) {
	publisher := &MockPublisher{}
	audit := NewAudit(publisher, "eventspark.audit")
	fixed := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	audit.now = func() time.Time { return fixed }

	publisher.On("Publish", mock.Anything, "eventspark.audit", "batch-1", mock.MatchedBy(func(ev AuditEvent) bool {
		return ev.ID != "" && ev.At.Equal(fixed) && ev.Type == AuditBookingsCancelled
	})).Return(nil)

	audit.Record(context.Background(), AuditEvent{
		Type:     AuditBookingsCancelled,
		BatchID:  "batch-1",
		Subjects: []string{"a", "b"},
	})

	publisher.AssertExpectations(t)
}

func TestAudit_PublishFailureIsSwallowed(t *testing.T) {
	publisher := &MockPublisher{}
	audit := NewAudit(publisher, "eventspark.audit")
	publisher.On("Publish", mock.Anything, "eventspark.audit", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	assert.NotPanics(t, func() {
		audit.Record(context.Background(), AuditEvent{Type: AuditRoleChanged})
	})
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestAudit_NilIsNoop(t *testing.T) {
	var audit *Audit
	assert.NotPanics(t, func() {
		audit.Record(context.Background(), AuditEvent{Type: AuditRoleChanged})
	})
}

func TestDecodeInvalidation(t *testing.T) {
	inv, err := DecodeInvalidation(kafka.Message{Value: []byte(`{"collection":"bookings","id":"b1"}`)})
	require.NoError(t, err)
	assert.Equal(t, CollectionBookings, inv.Collection)
	assert.Equal(t, "b1", inv.ID)

	_, err = DecodeInvalidation(kafka.Message{Value: []byte(`{"collection":"flights"}`)})
	assert.Error(t, err)

	_, err = DecodeInvalidation(kafka.Message{Value: []byte(`not json`)})
	assert.Error(t, err)
}

func TestAudit_RecordWithRetries(t *testing.T) {
	publisher := &MockPublisher{}
	audit := NewAudit(publisher, "eventspark.audit", WithRetries(3))

	publisher.On("PublishWithRetry", mock.Anything, "eventspark.audit", "batch-9", mock.Anything, 3).Return(errors.New("broker down"))

	assert.NotPanics(t, func() {
		audit.Record(context.Background(), AuditEvent{Type: AuditBookingsCancelled, BatchID: "batch-9"})
	})
	publisher.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProducer_PublishWithRetryStopsOnCancel(t *testing.T) {
	producer := NewProducer([]string{"127.0.0.1:1"})
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := producer.PublishWithRetry(ctx, "eventspark.audit", "k", AuditEvent{Type: AuditRoleChanged}, 3)

	assert.ErrorIs(t, err, context.Canceled)
}
