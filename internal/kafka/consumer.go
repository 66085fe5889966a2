package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Invalidation tells a running client that a collection changed on the
// server and should be re-fetched ahead of the next tick.
type Invalidation struct {
	Collection string `json:"collection"`
	ID         string `json:"id,omitempty"`
}

const (
	CollectionEvents   = "events"
	CollectionBookings = "bookings"
	CollectionUsers    = "users"
)

func DecodeInvalidation(msg kafka.Message) (Invalidation, error) {
	var inv Invalidation
	if err := json.Unmarshal(msg.Value, &inv); err != nil {
		return Invalidation{}, fmt.Errorf("decode invalidation: %w", err)
	}
	switch inv.Collection {
	case CollectionEvents, CollectionBookings, CollectionUsers:
		return inv, nil
	default:
		return Invalidation{}, fmt.Errorf("unknown collection %q", inv.Collection)
	}
}

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is done or handler fails.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}
