// Package kafkanotify publishes registry change events to a Kafka topic.
package kafkanotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/goliatone/go-formbuilder/pkg/registry"
)

// Writer is the subset of *kafka.Writer the notifier needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Notifier implements registry.Notifier. Messages are keyed by product id so
// events for one product stay ordered within a partition.
type Notifier struct {
	writer Writer
}

var _ registry.Notifier = (*Notifier)(nil)

// New wraps an existing writer.
func New(writer Writer) (*Notifier, error) {
	if writer == nil {
		return nil, errors.New("kafkanotify: writer is required")
	}
	return &Notifier{writer: writer}, nil
}

// NewWriter builds a *kafka.Writer for a comma separated broker list.
func NewWriter(brokers, topic string) *kafka.Writer {
	var addrs []string
	for _, broker := range strings.Split(brokers, ",") {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Notify publishes event as JSON.
func (n *Notifier) Notify(ctx context.Context, event registry.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafkanotify: encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ProductID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafkanotify: publish %s: %w", event.Type, err)
	}
	return nil
}

// Close releases the writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
